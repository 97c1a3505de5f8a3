package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepositoryOverview(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	rows := sqlmock.NewRows([]string{"users", "teachers", "students", "admins", "departments", "subjects", "classes"}).
		AddRow(5, 1, 3, 1, 1, 1, 1)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	overview, err := repo.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, overview.Users)
	assert.Equal(t, overview.Users, overview.Teachers+overview.Students+overview.Admins)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryUsersByRole(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	rows := sqlmock.NewRows([]string{"role", "count"}).
		AddRow("admin", 1).
		AddRow("student", 3).
		AddRow("teacher", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role ASC")).
		WillReturnRows(rows)

	counts, err := repo.UsersByRole(context.Background())
	require.NoError(t, err)
	assert.Len(t, counts, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositorySubjectsByDepartmentIncludesEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	rows := sqlmock.NewRows([]string{"department_id", "department_name", "count"}).
		AddRow("d1", "Computer Science", 2).
		AddRow("d2", "Mathematics", 0)
	mock.ExpectQuery("FROM departments d LEFT JOIN subjects s").WillReturnRows(rows)

	counts, err := repo.SubjectsByDepartment(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 0, counts[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryLatestTeachers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "created_at"}).
		AddRow("t1", "Alan Turing", "turing@campus.test", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = 'teacher' ORDER BY created_at DESC LIMIT 5")).
		WillReturnRows(rows)

	teachers, err := repo.LatestTeachers(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
