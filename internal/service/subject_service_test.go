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

type mockSubjectRepo struct {
	codes   map[string]bool
	created []models.Subject
}

func (m *mockSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	return nil, 0, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return m.codes[code], nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = "sub-new"
	m.created = append(m.created, *subject)
	return nil
}

func newSubjectFixture() (*SubjectService, *mockSubjectRepo) {
	repo := &mockSubjectRepo{codes: map[string]bool{"CS101": true}}
	departments := &mockDepartmentRepo{
		departments: map[string]models.DepartmentWithCounts{
			"dep-1": {Department: models.Department{ID: "dep-1", Code: "CS"}},
		},
	}
	return NewSubjectService(repo, departments, nil, nil), repo
}

func TestSubjectCreate(t *testing.T) {
	svc, repo := newSubjectFixture()

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{
		Code: "CS201", Name: "Data Structures", DepartmentID: "dep-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-new", subject.ID)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "dep-1", repo.created[0].DepartmentID)
}

func TestSubjectCreateUnknownDepartment(t *testing.T) {
	svc, _ := newSubjectFixture()

	_, err := svc.Create(context.Background(), CreateSubjectRequest{
		Code: "CS201", Name: "Data Structures", DepartmentID: "missing",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Department not found", appErr.Message)
}

func TestSubjectCreateDuplicateCode(t *testing.T) {
	svc, _ := newSubjectFixture()

	_, err := svc.Create(context.Background(), CreateSubjectRequest{
		Code: "CS101", Name: "Intro", DepartmentID: "dep-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Subject code already exists", appErr.Message)
}
