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

type mockDepartmentRepo struct {
	departments map[string]models.DepartmentWithCounts
	codes       map[string]bool
	created     []models.Department
}

func (m *mockDepartmentRepo) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	return nil, 0, nil
}

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := m.departments[id]; ok {
		return &d.Department, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDepartmentRepo) FindWithCounts(ctx context.Context, id string) (*models.DepartmentWithCounts, error) {
	if d, ok := m.departments[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDepartmentRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return m.codes[code], nil
}

func (m *mockDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	department.ID = "dep-new"
	m.created = append(m.created, *department)
	return nil
}

func newDepartmentFixture() (*DepartmentService, *mockDepartmentRepo) {
	repo := &mockDepartmentRepo{
		departments: map[string]models.DepartmentWithCounts{
			"dep-1": {
				Department:   models.Department{ID: "dep-1", Code: "CS", Name: "Computer Science"},
				SubjectCount: 4,
				ClassCount:   9,
			},
		},
		codes: map[string]bool{"CS": true},
	}
	return NewDepartmentService(repo, nil, nil), repo
}

func TestDepartmentGetExposesTotals(t *testing.T) {
	svc, _ := newDepartmentFixture()

	detail, err := svc.Get(context.Background(), "dep-1")
	require.NoError(t, err)
	assert.Equal(t, "CS", detail.Code)
	assert.Equal(t, 4, detail.Totals.Subjects)
	assert.Equal(t, 9, detail.Totals.Classes)
}

func TestDepartmentGetNotFound(t *testing.T) {
	svc, _ := newDepartmentFixture()

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Department not found", appErr.Message)
}

func TestDepartmentCreate(t *testing.T) {
	svc, repo := newDepartmentFixture()

	department, err := svc.Create(context.Background(), CreateDepartmentRequest{
		Code: "MATH", Name: "Mathematics", Description: "Pure and applied mathematics",
	})
	require.NoError(t, err)
	assert.Equal(t, "dep-new", department.ID)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "MATH", repo.created[0].Code)
}

func TestDepartmentCreateDuplicateCode(t *testing.T) {
	svc, _ := newDepartmentFixture()

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Code: "CS", Name: "Duplicate"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Department code already exists", appErr.Message)
}

func TestDepartmentCreateMissingFields(t *testing.T) {
	svc, _ := newDepartmentFixture()

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "No Code"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
