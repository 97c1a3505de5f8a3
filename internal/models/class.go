package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ClassStatus enumerates the lifecycle states of a class.
type ClassStatus string

const (
	ClassStatusActive   ClassStatus = "active"
	ClassStatusInactive ClassStatus = "inactive"
	ClassStatusArchived ClassStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s ClassStatus) Valid() bool {
	switch s {
	case ClassStatusActive, ClassStatusInactive, ClassStatusArchived:
		return true
	}
	return false
}

// SchedulePeriod describes one recurring meeting window of a class.
type SchedulePeriod struct {
	Day   string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// Schedule is an ordered list of periods persisted as a JSON column.
type Schedule []SchedulePeriod

// Value implements driver.Valuer.
func (s Schedule) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *Schedule) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported schedule source type %T", src)
	}
	return json.Unmarshal(raw, s)
}

// Class represents a scheduled class section of a subject.
type Class struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	InviteCode string      `db:"invite_code" json:"invite_code"`
	Capacity   int         `db:"capacity" json:"capacity"`
	Status     ClassStatus `db:"status" json:"status"`
	Schedule   Schedule    `db:"schedule" json:"schedule"`
	SubjectID  string      `db:"subject_id" json:"subject_id"`
	TeacherID  string      `db:"teacher_id" json:"teacher_id"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with subject, department and teacher context.
type ClassDetail struct {
	Class
	SubjectCode    *string `db:"subject_code" json:"subject_code"`
	SubjectName    *string `db:"subject_name" json:"subject_name"`
	DepartmentID   *string `db:"department_id" json:"department_id"`
	DepartmentName *string `db:"department_name" json:"department_name"`
	TeacherName    *string `db:"teacher_name" json:"teacher_name"`
	TeacherEmail   *string `db:"teacher_email" json:"teacher_email"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	SubjectID string
	TeacherID string
	Status    ClassStatus
	Search    string
	Page      int
	Limit     int
}
