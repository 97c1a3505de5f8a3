package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/campus-admin-api/internal/models"
)

// StatsRepository runs the aggregation queries behind the stats endpoints.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a stats repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns flat entity counts for the overview widget.
func (r *StatsRepository) Overview(ctx context.Context) (*models.OverviewStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM users) AS users,
        (SELECT COUNT(*) FROM users WHERE role = 'teacher') AS teachers,
        (SELECT COUNT(*) FROM users WHERE role = 'student') AS students,
        (SELECT COUNT(*) FROM users WHERE role = 'admin') AS admins,
        (SELECT COUNT(*) FROM departments) AS departments,
        (SELECT COUNT(*) FROM subjects) AS subjects,
        (SELECT COUNT(*) FROM classes) AS classes`
	var overview models.OverviewStats
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}
	return &overview, nil
}

// UsersByRole groups users by their role value.
func (r *StatsRepository) UsersByRole(ctx context.Context) ([]models.RoleCount, error) {
	const query = `SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role ASC`
	var counts []models.RoleCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	return counts, nil
}

// SubjectsByDepartment groups subjects by their owning department. The
// department table drives the join so empty departments appear with count 0.
func (r *StatsRepository) SubjectsByDepartment(ctx context.Context) ([]models.DepartmentSubjectCount, error) {
	const query = `SELECT d.id AS department_id, d.name AS department_name, COUNT(s.id) AS count
        FROM departments d LEFT JOIN subjects s ON s.department_id = d.id
        GROUP BY d.id, d.name ORDER BY d.name ASC`
	var counts []models.DepartmentSubjectCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("subjects by department: %w", err)
	}
	return counts, nil
}

// ClassesBySubject groups classes by their subject.
func (r *StatsRepository) ClassesBySubject(ctx context.Context) ([]models.SubjectClassCount, error) {
	const query = `SELECT s.id AS subject_id, s.name AS subject_name, COUNT(c.id) AS count
        FROM subjects s LEFT JOIN classes c ON c.subject_id = s.id
        GROUP BY s.id, s.name ORDER BY s.name ASC`
	var counts []models.SubjectClassCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("classes by subject: %w", err)
	}
	return counts, nil
}

// LatestClasses returns the most recently created classes with joined
// context, truncated to limit.
func (r *StatsRepository) LatestClasses(ctx context.Context, limit int) ([]models.ClassDetail, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY c.created_at DESC LIMIT %d", classDetailColumns, classDetailJoins, limit)
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("latest classes: %w", err)
	}
	return classes, nil
}

// LatestTeachers returns the most recently created teacher accounts,
// truncated to limit.
func (r *StatsRepository) LatestTeachers(ctx context.Context, limit int) ([]models.LatestTeacher, error) {
	query := fmt.Sprintf(`SELECT id, full_name, email, created_at FROM users WHERE role = 'teacher' ORDER BY created_at DESC LIMIT %d`, limit)
	var teachers []models.LatestTeacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("latest teachers: %w", err)
	}
	return teachers, nil
}
