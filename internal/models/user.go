package models

import "time"

// UserRole represents the available roles.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role   UserRole
	Search string
	Page   int
	Limit  int
}

// RelationScope selects the join path for derived user relations. Only the
// teacher and student paths exist; admin has no scope.
type RelationScope int

const (
	RelationScopeTeacher RelationScope = iota
	RelationScopeStudent
)

// ScopeForRole maps a role onto its relation scope. The second return value
// is false when the role has no defined join path.
func ScopeForRole(role UserRole) (RelationScope, bool) {
	switch role {
	case RoleTeacher:
		return RelationScopeTeacher, true
	case RoleStudent:
		return RelationScopeStudent, true
	default:
		return 0, false
	}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the pagination block for a list response.
func NewPagination(page, limit, total int) *Pagination {
	p := &Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	return p
}

// EmptyPagination is the degenerate block returned when a relation query has
// no defined join path for the requesting role.
func EmptyPagination() *Pagination {
	return &Pagination{Page: 1, Limit: 0, Total: 0, TotalPages: 0}
}
