// Command seed bootstraps the database schema and inserts a development
// dataset: one admin, a couple of departments with subjects, classes and a
// handful of enrolled students.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/campus-admin-api/pkg/config"
	"github.com/campuskit/campus-admin-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL,
    role TEXT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    last_login TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS departments (
    id UUID PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
    id UUID PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    department_id UUID NOT NULL REFERENCES departments(id),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS classes (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    invite_code TEXT NOT NULL UNIQUE,
    capacity INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    schedule JSONB NOT NULL DEFAULT '[]',
    subject_id UUID NOT NULL REFERENCES subjects(id),
    teacher_id UUID NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS enrollments (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id),
    class_id UUID NOT NULL REFERENCES classes(id),
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (student_id, class_id)
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    token TEXT NOT NULL UNIQUE,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    revoked BOOLEAN NOT NULL DEFAULT FALSE,
    revoked_at TIMESTAMPTZ,
    ip_address TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS audit_logs (
    id UUID PRIMARY KEY,
    user_id UUID,
    action TEXT NOT NULL,
    resource TEXT NOT NULL,
    resource_id TEXT,
    new_values JSONB,
    ip_address TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	if err := seed(ctx, db); err != nil {
		log.Fatalf("failed to seed data: %v", err)
	}

	log.Println("seed complete")
}

func seed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if count > 0 {
		log.Println("users table already populated, skipping seed")
		return nil
	}

	now := time.Now().UTC()

	insertUser := func(email, name, role, password string) (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		id := uuid.NewString()
		_, err = db.ExecContext(ctx, `INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)`, id, email, string(hash), name, role, now)
		return id, err
	}

	if _, err := insertUser("admin@campus.test", "Site Admin", "admin", "admin123"); err != nil {
		return err
	}

	teacherID, err := insertUser("turing@campus.test", "Alan Turing", "teacher", "teacher123")
	if err != nil {
		return err
	}

	studentIDs := make([]string, 0, 3)
	for i, name := range []string{"Ada Lovelace", "Grace Hopper", "Katherine Johnson"} {
		id, err := insertUser(fmt.Sprintf("student%d@campus.test", i+1), name, "student", "student123")
		if err != nil {
			return err
		}
		studentIDs = append(studentIDs, id)
	}

	deptID := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT INTO departments (id, code, name, description, created_at, updated_at)
        VALUES ($1, 'CS', 'Computer Science', 'Computing and informatics', $2, $2)`, deptID, now); err != nil {
		return err
	}

	subjectID := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT INTO subjects (id, code, name, description, department_id, created_at, updated_at)
        VALUES ($1, 'CS101', 'Introduction to Programming', '', $2, $3, $3)`, subjectID, deptID, now); err != nil {
		return err
	}

	classID := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT INTO classes (id, name, invite_code, capacity, status, schedule, subject_id, teacher_id, created_at, updated_at)
        VALUES ($1, 'Intro Section A', 'WELCOME1', 50, 'active', '[{"day":"monday","start":"09:00","end":"11:00"}]', $2, $3, $4, $4)`, classID, subjectID, teacherID, now); err != nil {
		return err
	}

	for _, studentID := range studentIDs {
		if _, err := db.ExecContext(ctx, `INSERT INTO enrollments (id, student_id, class_id, created_at)
            VALUES ($1, $2, $3, $4)`, uuid.NewString(), studentID, classID, now); err != nil {
			return err
		}
	}

	return nil
}
