package models

import "time"

// Subject represents an academic subject owned by a department.
type Subject struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectDetail denormalises the owning department onto the subject row.
// The pointer fields stay null when the join produces no match so the
// response shape is stable.
type SubjectDetail struct {
	Subject
	DepartmentCode *string `db:"department_code" json:"department_code"`
	DepartmentName *string `db:"department_name" json:"department_name"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	DepartmentID string
	Search       string
	Page         int
	Limit        int
}
