package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/campus-admin-api/internal/models"
	appErrors "github.com/campuskit/campus-admin-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	RelatedDepartments(ctx context.Context, scope models.RelationScope, userID string, page, limit int) ([]models.Department, int, error)
	RelatedSubjects(ctx context.Context, scope models.RelationScope, userID string, page, limit int) ([]models.Subject, int, error)
	RelatedClasses(ctx context.Context, scope models.RelationScope, userID string, page, limit int) ([]models.Class, int, error)
}

// UserService coordinates user listing and the derived relation queries.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns users with pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid role filter")
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	page, limit := normalisePage(filter.Page, filter.Limit)
	return users, models.NewPagination(page, limit, total), nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// resolveScope loads the user and maps its role onto a relation scope. The
// second return value is false for roles without a join path (admins), which
// callers turn into an empty result set instead of an error.
func (s *UserService) resolveScope(ctx context.Context, userID string) (models.RelationScope, bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return 0, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	scope, ok := models.ScopeForRole(user.Role)
	return scope, ok, nil
}

// RelatedDepartments resolves the departments a user teaches in or studies
// under, depending on role.
func (s *UserService) RelatedDepartments(ctx context.Context, userID string, page, limit int) ([]models.Department, *models.Pagination, error) {
	scope, ok, err := s.resolveScope(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return []models.Department{}, models.EmptyPagination(), nil
	}

	departments, total, err := s.repo.RelatedDepartments(ctx, scope, userID, page, limit)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve related departments")
	}
	if departments == nil {
		departments = []models.Department{}
	}
	page, limit = normalisePage(page, limit)
	return departments, models.NewPagination(page, limit, total), nil
}

// RelatedSubjects resolves the subjects a user teaches or studies.
func (s *UserService) RelatedSubjects(ctx context.Context, userID string, page, limit int) ([]models.Subject, *models.Pagination, error) {
	scope, ok, err := s.resolveScope(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return []models.Subject{}, models.EmptyPagination(), nil
	}

	subjects, total, err := s.repo.RelatedSubjects(ctx, scope, userID, page, limit)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve related subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	page, limit = normalisePage(page, limit)
	return subjects, models.NewPagination(page, limit, total), nil
}

// RelatedClasses resolves the classes a user teaches or is enrolled in.
func (s *UserService) RelatedClasses(ctx context.Context, userID string, page, limit int) ([]models.Class, *models.Pagination, error) {
	scope, ok, err := s.resolveScope(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return []models.Class{}, models.EmptyPagination(), nil
	}

	classes, total, err := s.repo.RelatedClasses(ctx, scope, userID, page, limit)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve related classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	page, limit = normalisePage(page, limit)
	return classes, models.NewPagination(page, limit, total), nil
}
