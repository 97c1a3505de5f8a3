package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, UserRole("superuser").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestScopeForRole(t *testing.T) {
	scope, ok := ScopeForRole(RoleTeacher)
	assert.True(t, ok)
	assert.Equal(t, RelationScopeTeacher, scope)

	scope, ok = ScopeForRole(RoleStudent)
	assert.True(t, ok)
	assert.Equal(t, RelationScopeStudent, scope)

	_, ok = ScopeForRole(RoleAdmin)
	assert.False(t, ok)
}

func TestNewPaginationRoundsUp(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
	}{
		{"exact multiple", 1, 20, 40, 2},
		{"partial last page", 2, 20, 41, 3},
		{"empty result", 1, 20, 0, 0},
		{"single item", 1, 20, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.limit, tc.total)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.limit, p.Limit)
			assert.Equal(t, tc.total, p.Total)
			assert.Equal(t, tc.totalPages, p.TotalPages)
		})
	}
}

func TestEmptyPagination(t *testing.T) {
	p := EmptyPagination()
	assert.Equal(t, &Pagination{Page: 1, Limit: 0, Total: 0, TotalPages: 0}, p)
}
