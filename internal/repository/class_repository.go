package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuskit/campus-admin-api/internal/models"
)

const classDetailColumns = `c.id, c.name, c.invite_code, c.capacity, c.status, c.schedule, c.subject_id, c.teacher_id, c.created_at, c.updated_at,
        s.code AS subject_code, s.name AS subject_name, d.id AS department_id, d.name AS department_name,
        u.full_name AS teacher_name, u.email AS teacher_email`

const classDetailJoins = `FROM classes c
        LEFT JOIN subjects s ON s.id = c.subject_id
        LEFT JOIN departments d ON d.id = s.department_id
        LEFT JOIN users u ON u.id = c.teacher_id`

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filter criteria with subject, department and
// teacher context denormalised onto each row.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error) {
	base := classDetailJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("c.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d)", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " AND " + strings.Join(conditions, " AND ")
	}

	page, limit := normalisePage(filter.Page, filter.Limit)
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s ORDER BY c.created_at DESC LIMIT %d OFFSET %d", classDetailColumns, base+clause, limit, offset)
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, invite_code, capacity, status, schedule, subject_id, teacher_id, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindDetailByID returns a class with joined subject, department and teacher
// attributes.
func (r *ClassRepository) FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", classDetailColumns, classDetailJoins)
	var detail models.ClassDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByInviteCode returns the class owning the given invite code.
func (r *ClassRepository) FindByInviteCode(ctx context.Context, code string) (*models.Class, error) {
	const query = `SELECT id, name, invite_code, capacity, status, schedule, subject_id, teacher_id, created_at, updated_at FROM classes WHERE invite_code = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, code); err != nil {
		return nil, err
	}
	return &class, nil
}

// ExistsByInviteCode checks whether an invite code is already taken.
func (r *ClassRepository) ExistsByInviteCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM classes WHERE invite_code = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check invite code: %w", err)
	}
	return true, nil
}

// Create persists a class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, invite_code, capacity, status, schedule, subject_id, teacher_id, created_at, updated_at)
        VALUES (:id, :name, :invite_code, :capacity, :status, :schedule, :subject_id, :teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// ListMembers returns the paginated users attached to a class for the given
// role. Students reach the class through enrollments, the teacher through the
// class row itself.
func (r *ClassRepository) ListMembers(ctx context.Context, classID string, role models.UserRole, page, limit int) ([]models.User, int, error) {
	var base string
	switch role {
	case models.RoleTeacher:
		base = `FROM users u JOIN classes c ON c.teacher_id = u.id WHERE c.id = $1`
	case models.RoleStudent:
		base = `FROM users u JOIN enrollments e ON e.student_id = u.id WHERE e.class_id = $1`
	default:
		return nil, 0, fmt.Errorf("list class members: role %q has no membership path", role)
	}

	page, limit = normalisePage(page, limit)
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT u.id, u.email, u.password_hash, u.full_name, u.role, u.active, u.last_login, u.created_at, u.updated_at
        %s ORDER BY u.created_at DESC LIMIT %d OFFSET %d`, base, limit, offset)
	var members []models.User
	if err := r.db.SelectContext(ctx, &members, query, classID); err != nil {
		return nil, 0, fmt.Errorf("list class members: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, classID); err != nil {
		return nil, 0, fmt.Errorf("count class members: %w", err)
	}
	return members, total, nil
}

// Roster returns every enrolled student of a class ordered by name, for
// export rendering.
func (r *ClassRepository) Roster(ctx context.Context, classID string) ([]models.User, error) {
	const query = `SELECT u.id, u.email, u.password_hash, u.full_name, u.role, u.active, u.last_login, u.created_at, u.updated_at
        FROM users u JOIN enrollments e ON e.student_id = u.id
        WHERE e.class_id = $1 ORDER BY u.full_name ASC`
	var students []models.User
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("class roster: %w", err)
	}
	return students, nil
}
