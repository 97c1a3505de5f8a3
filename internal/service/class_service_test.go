package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/campus-admin-api/internal/models"
	appErrors "github.com/campuskit/campus-admin-api/pkg/errors"
)

type mockClassRepo struct {
	classes    map[string]models.Class
	details    map[string]models.ClassDetail
	takenCodes map[string]bool
	members    []models.User
	roster     []models.User
	lastRole   models.UserRole
}

func (m *mockClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error) {
	details := make([]models.ClassDetail, 0, len(m.details))
	for _, d := range m.details {
		details = append(details, d)
	}
	return details, len(details), nil
}

func (m *mockClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	if d, ok := m.details[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) ExistsByInviteCode(ctx context.Context, code string) (bool, error) {
	return m.takenCodes[code], nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = "generated"
	}
	if m.classes == nil {
		m.classes = make(map[string]models.Class)
	}
	m.classes[class.ID] = *class
	return nil
}

func (m *mockClassRepo) ListMembers(ctx context.Context, classID string, role models.UserRole, page, limit int) ([]models.User, int, error) {
	m.lastRole = role
	return m.members, len(m.members), nil
}

func (m *mockClassRepo) Roster(ctx context.Context, classID string) ([]models.User, error) {
	return m.roster, nil
}

type mockSubjectReader struct {
	subjects map[string]models.Subject
}

func (m *mockSubjectReader) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	return nil, 0, nil
}

func (m *mockSubjectReader) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectReader) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (m *mockSubjectReader) Create(ctx context.Context, subject *models.Subject) error {
	return nil
}

func newClassFixture() (*ClassService, *mockClassRepo) {
	repo := &mockClassRepo{
		classes: map[string]models.Class{
			"cls-1": {ID: "cls-1", Name: "Intro Section A", InviteCode: "WELCOME1", Capacity: 50},
		},
		details: map[string]models.ClassDetail{
			"cls-1": {Class: models.Class{ID: "cls-1", Name: "Intro Section A"}},
		},
	}
	subjects := &mockSubjectReader{subjects: map[string]models.Subject{
		"sub-1": {ID: "sub-1", Code: "CS101"},
	}}
	users := &mockUserReader{users: map[string]models.User{
		"tch-1": {ID: "tch-1", Role: models.RoleTeacher},
		"stu-1": {ID: "stu-1", Role: models.RoleStudent},
	}}
	return NewClassService(repo, subjects, users, nil, nil), repo
}

func TestClassCreateGeneratesInviteCode(t *testing.T) {
	svc, _ := newClassFixture()

	class, err := svc.Create(context.Background(), CreateClassRequest{
		Name: "Algorithms", Capacity: 30, SubjectID: "sub-1", TeacherID: "tch-1",
	})
	require.NoError(t, err)
	assert.Len(t, class.InviteCode, 8)
	for _, r := range class.InviteCode {
		assert.Contains(t, inviteCodeAlphabet, string(r))
	}
	assert.Equal(t, models.ClassStatusActive, class.Status)
}

func TestClassCreateUnknownSubject(t *testing.T) {
	svc, _ := newClassFixture()

	_, err := svc.Create(context.Background(), CreateClassRequest{
		Name: "Algorithms", Capacity: 30, SubjectID: "missing", TeacherID: "tch-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Subject not found", appErr.Message)
}

func TestClassCreateNonTeacherRejected(t *testing.T) {
	svc, _ := newClassFixture()

	_, err := svc.Create(context.Background(), CreateClassRequest{
		Name: "Algorithms", Capacity: 30, SubjectID: "sub-1", TeacherID: "stu-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Message, "not a teacher")
}

func TestClassMembersDefaultRole(t *testing.T) {
	svc, repo := newClassFixture()

	_, _, err := svc.Members(context.Background(), "cls-1", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, repo.lastRole)
}

func TestClassMembersInvalidRole(t *testing.T) {
	svc, _ := newClassFixture()

	_, _, err := svc.Members(context.Background(), "cls-1", "superuser", 1, 20)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestClassMembersAdminRoleRejected(t *testing.T) {
	svc, repo := newClassFixture()

	_, _, err := svc.Members(context.Background(), "cls-1", models.RoleAdmin, 1, 20)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
	assert.Empty(t, repo.lastRole, "rejected role filters must not reach the repository")
}

func TestClassMembersUnknownClass(t *testing.T) {
	svc, _ := newClassFixture()

	_, _, err := svc.Members(context.Background(), "missing", models.RoleStudent, 1, 20)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Class not found", appErr.Message)
}

func TestExportRosterCSV(t *testing.T) {
	svc, repo := newClassFixture()
	repo.roster = []models.User{
		{FullName: "Ada Lovelace", Email: "student1@campus.test"},
		{FullName: "Grace Hopper", Email: "student2@campus.test"},
	}

	result, err := svc.ExportRoster(context.Background(), "cls-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "roster-cls-1.csv", result.Filename)

	body := string(result.Body)
	assert.True(t, strings.HasPrefix(body, "Name,Email"))
	assert.Contains(t, body, "Ada Lovelace,student1@campus.test")
}

func TestExportRosterPDF(t *testing.T) {
	svc, repo := newClassFixture()
	repo.roster = []models.User{{FullName: "Ada Lovelace", Email: "student1@campus.test"}}

	result, err := svc.ExportRoster(context.Background(), "cls-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Body)
}

func TestExportRosterUnsupportedFormat(t *testing.T) {
	svc, _ := newClassFixture()

	_, err := svc.ExportRoster(context.Background(), "cls-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
