package models

import "time"

// Department represents an academic department.
type Department struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentTotals aggregates entity counts below a department.
type DepartmentTotals struct {
	Subjects int `json:"subjects"`
	Classes  int `json:"classes"`
}

// DepartmentDetail extends Department with derived totals.
type DepartmentDetail struct {
	Department
	Totals DepartmentTotals `json:"totals"`
}

// DepartmentWithCounts is the flat row shape the detail query scans into.
type DepartmentWithCounts struct {
	Department
	SubjectCount int `db:"subject_count" json:"-"`
	ClassCount   int `db:"class_count" json:"-"`
}

// DepartmentFilter defines filter criteria for listing departments.
type DepartmentFilter struct {
	Search string
	Page   int
	Limit  int
}
