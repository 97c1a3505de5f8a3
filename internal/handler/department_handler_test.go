package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/campus-admin-api/internal/models"
	"github.com/campuskit/campus-admin-api/internal/service"
)

type fakeDepartmentRepo struct {
	departments []models.Department
	counts      map[string]models.DepartmentWithCounts
	codes       map[string]bool
	lastFilter  models.DepartmentFilter
}

func (f *fakeDepartmentRepo) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	f.lastFilter = filter
	return f.departments, len(f.departments), nil
}

func (f *fakeDepartmentRepo) FindByID(ctx context.Context, id string) (*models.Department, error) {
	for _, d := range f.departments {
		if d.ID == id {
			department := d
			return &department, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDepartmentRepo) FindWithCounts(ctx context.Context, id string) (*models.DepartmentWithCounts, error) {
	if d, ok := f.counts[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDepartmentRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return f.codes[code], nil
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	department.ID = "dep-new"
	f.departments = append(f.departments, *department)
	return nil
}

func newDepartmentHandler(repo *fakeDepartmentRepo) *DepartmentHandler {
	return NewDepartmentHandler(service.NewDepartmentService(repo, nil, nil))
}

func TestDepartmentHandlerListEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDepartmentHandler(&fakeDepartmentRepo{
		departments: []models.Department{{ID: "dep-1", Code: "CS", Name: "Computer Science"}},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/departments?search=comp", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data       []models.Department `json:"data"`
		Pagination *models.Pagination  `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "CS", envelope.Data[0].Code)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.Page)
	assert.Equal(t, 20, envelope.Pagination.Limit)
	assert.Equal(t, 1, envelope.Pagination.Total)
	assert.Equal(t, 1, envelope.Pagination.TotalPages)
}

func TestDepartmentHandlerGetNotFoundBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDepartmentHandler(&fakeDepartmentRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/departments/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Department not found", body["error"])
}

func TestDepartmentHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeDepartmentRepo{}
	handler := newDepartmentHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	payload := `{"code":"MATH","name":"Mathematics","description":"Numbers"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.departments, 1)
	assert.Equal(t, "MATH", repo.departments[0].Code)
}

func TestDepartmentHandlerCreateDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDepartmentHandler(&fakeDepartmentRepo{codes: map[string]bool{"CS": true}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	payload := `{"code":"CS","name":"Computer Science"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
