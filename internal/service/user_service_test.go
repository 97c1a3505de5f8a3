package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/campus-admin-api/internal/models"
	appErrors "github.com/campuskit/campus-admin-api/pkg/errors"
)

type mockUserRepo struct {
	users       map[string]models.User
	departments []models.Department
	subjects    []models.Subject
	classes     []models.Class
	lastScope   *models.RelationScope
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RelatedDepartments(ctx context.Context, scope models.RelationScope, userID string, page, limit int) ([]models.Department, int, error) {
	m.lastScope = &scope
	return m.departments, len(m.departments), nil
}

func (m *mockUserRepo) RelatedSubjects(ctx context.Context, scope models.RelationScope, userID string, page, limit int) ([]models.Subject, int, error) {
	m.lastScope = &scope
	return m.subjects, len(m.subjects), nil
}

func (m *mockUserRepo) RelatedClasses(ctx context.Context, scope models.RelationScope, userID string, page, limit int) ([]models.Class, int, error) {
	m.lastScope = &scope
	return m.classes, len(m.classes), nil
}

func newUserFixture() (*UserService, *mockUserRepo) {
	repo := &mockUserRepo{users: map[string]models.User{
		"adm-1": {ID: "adm-1", Role: models.RoleAdmin},
		"tch-1": {ID: "tch-1", Role: models.RoleTeacher},
		"stu-1": {ID: "stu-1", Role: models.RoleStudent},
	}}
	return NewUserService(repo, nil, nil), repo
}

func TestRelatedDepartmentsAdminIsEmpty(t *testing.T) {
	svc, repo := newUserFixture()

	departments, pagination, err := svc.RelatedDepartments(context.Background(), "adm-1", 1, 20)
	require.NoError(t, err)
	assert.NotNil(t, departments)
	assert.Empty(t, departments)
	assert.Equal(t, &models.Pagination{Page: 1, Limit: 0, Total: 0, TotalPages: 0}, pagination)
	assert.Nil(t, repo.lastScope, "admin lookups must not reach the repository")
}

func TestRelatedSubjectsScopeDispatch(t *testing.T) {
	svc, repo := newUserFixture()
	repo.subjects = []models.Subject{{ID: "s1"}}

	_, _, err := svc.RelatedSubjects(context.Background(), "tch-1", 1, 20)
	require.NoError(t, err)
	require.NotNil(t, repo.lastScope)
	assert.Equal(t, models.RelationScopeTeacher, *repo.lastScope)

	_, _, err = svc.RelatedSubjects(context.Background(), "stu-1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, models.RelationScopeStudent, *repo.lastScope)
}

func TestRelatedClassesUnknownUser(t *testing.T) {
	svc, _ := newUserFixture()

	_, _, err := svc.RelatedClasses(context.Background(), "missing", 1, 20)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestUserListInvalidRole(t *testing.T) {
	svc, _ := newUserFixture()

	_, _, err := svc.List(context.Background(), models.UserFilter{Role: "superuser"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestUserListLimitClampedToCap(t *testing.T) {
	svc, _ := newUserFixture()

	_, pagination, err := svc.List(context.Background(), models.UserFilter{Page: 1, Limit: 150})
	require.NoError(t, err)
	require.NotNil(t, pagination)
	assert.Equal(t, 100, pagination.Limit)
}

func TestUserGet(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.Get(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "User not found", appErrors.FromError(err).Message)
}
