package models

import "time"

// OverviewStats provides flat counts for the dashboard overview widget.
type OverviewStats struct {
	Users       int `db:"users" json:"users"`
	Teachers    int `db:"teachers" json:"teachers"`
	Students    int `db:"students" json:"students"`
	Admins      int `db:"admins" json:"admins"`
	Departments int `db:"departments" json:"departments"`
	Subjects    int `db:"subjects" json:"subjects"`
	Classes     int `db:"classes" json:"classes"`
}

// RoleCount groups users by role.
type RoleCount struct {
	Role  UserRole `db:"role" json:"role"`
	Count int      `db:"count" json:"count"`
}

// DepartmentSubjectCount groups subjects by department. Departments drive the
// join, so a department with no subjects appears with count 0.
type DepartmentSubjectCount struct {
	DepartmentID   string `db:"department_id" json:"department_id"`
	DepartmentName string `db:"department_name" json:"department_name"`
	Count          int    `db:"count" json:"count"`
}

// SubjectClassCount groups classes by subject.
type SubjectClassCount struct {
	SubjectID   string `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Count       int    `db:"count" json:"count"`
}

// ChartStats bundles the grouped counts for dashboard charts.
type ChartStats struct {
	UsersByRole          []RoleCount              `json:"users_by_role"`
	SubjectsByDepartment []DepartmentSubjectCount `json:"subjects_by_department"`
	ClassesBySubject     []SubjectClassCount      `json:"classes_by_subject"`
}

// LatestTeacher is a trimmed user row for "recently created" listings.
type LatestTeacher struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LatestStats bundles the most recently created classes and teachers.
type LatestStats struct {
	Classes  []ClassDetail   `json:"classes"`
	Teachers []LatestTeacher `json:"teachers"`
}
