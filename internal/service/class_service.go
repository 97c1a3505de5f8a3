package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/campus-admin-api/internal/models"
	appErrors "github.com/campuskit/campus-admin-api/pkg/errors"
	"github.com/campuskit/campus-admin-api/pkg/export"
)

// Invite codes avoid visually ambiguous characters.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	inviteCodeLength  = 8
	inviteCodeRetries = 5
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error)
	ExistsByInviteCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	ListMembers(ctx context.Context, classID string, role models.UserRole, page, limit int) ([]models.User, int, error)
	Roster(ctx context.Context, classID string) ([]models.User, error)
}

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateClassRequest captures the creation payload. The invite code is never
// client-supplied; it is generated here.
type CreateClassRequest struct {
	Name      string                  `json:"name" validate:"required,max=128"`
	Capacity  int                     `json:"capacity" validate:"gt=0"`
	SubjectID string                  `json:"subjectId" validate:"required"`
	TeacherID string                  `json:"teacherId" validate:"required"`
	Schedule  []models.SchedulePeriod `json:"schedule" validate:"dive"`
}

// RosterExport bundles rendered export bytes with response metadata.
type RosterExport struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ClassService coordinates class operations.
type ClassService struct {
	repo      classRepository
	subjects  subjectRepository
	users     userReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(repo classRepository, subjects subjectRepository, users userReader, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		repo:      repo,
		subjects:  subjects,
		users:     users,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// List returns classes with pagination metadata.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if classes == nil {
		classes = []models.ClassDetail{}
	}
	page, limit := normalisePage(filter.Page, filter.Limit)
	return classes, models.NewPagination(page, limit, total), nil
}

// Get returns detailed class information.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return detail, nil
}

// Create adds a new class, generating a unique invite code.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid class payload")
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	teacher, err := s.users.FindByID(ctx, req.TeacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "referenced user is not a teacher")
	}

	code, err := s.generateInviteCode(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate invite code")
	}

	class := &models.Class{
		Name:       req.Name,
		InviteCode: code,
		Capacity:   req.Capacity,
		Status:     models.ClassStatusActive,
		Schedule:   req.Schedule,
		SubjectID:  req.SubjectID,
		TeacherID:  req.TeacherID,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Members returns the paginated class members for a role. Only teachers and
// students belong to a class, so any other role filter is rejected.
func (s *ClassService) Members(ctx context.Context, classID string, role models.UserRole, page, limit int) ([]models.User, *models.Pagination, error) {
	switch role {
	case "":
		role = models.RoleStudent
	case models.RoleTeacher, models.RoleStudent:
	default:
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid role filter")
	}

	if _, err := s.repo.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	members, total, err := s.repo.ListMembers(ctx, classID, role, page, limit)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class members")
	}
	if members == nil {
		members = []models.User{}
	}
	page, limit = normalisePage(page, limit)
	return members, models.NewPagination(page, limit, total), nil
}

// ExportRoster renders the enrolled students of a class as CSV or PDF.
func (s *ClassService) ExportRoster(ctx context.Context, classID, format string) (*RosterExport, error) {
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	students, err := s.repo.Roster(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	dataset := export.Dataset{Headers: []string{"Name", "Email"}}
	for _, student := range students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":  student.FullName,
			"Email": student.Email,
		})
	}

	switch format {
	case "", "csv":
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
		}
		return &RosterExport{
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("roster-%s.csv", class.ID),
			Body:        body,
		}, nil
	case "pdf":
		body, err := s.pdf.Render(dataset, fmt.Sprintf("Roster %s", class.Name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
		}
		return &RosterExport{
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("roster-%s.pdf", class.ID),
			Body:        body,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ClassService) generateInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		buf := make([]byte, inviteCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for i, b := range buf {
			buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
		}
		code := string(buf)

		exists, err := s.repo.ExistsByInviteCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("invite code space exhausted after %d attempts", inviteCodeRetries)
}
