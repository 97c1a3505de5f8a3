package models

import "time"

// Enrollment links a student to a class. The (student_id, class_id) pair is
// unique across the table.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentDetail carries joined student and class context for responses.
type EnrollmentDetail struct {
	Enrollment
	StudentName  *string `db:"student_name" json:"student_name"`
	StudentEmail *string `db:"student_email" json:"student_email"`
	ClassName    *string `db:"class_name" json:"class_name"`
}

// EnrollmentFilter defines filter criteria for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	ClassID   string
	Page      int
	Limit     int
}
