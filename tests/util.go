// Package testutil provides fixture helpers shared by the test suites.
package testutil

import (
	"context"
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

// NewConfig returns a self-contained config suitable for tests.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:            true,
		TestMode:         true,
		Env:              "TEST",
		Build:            "test",
		AppName:          "Darasa",
		SecretKey:        "test-secret",
		DefaultFromEmail: mail.Address{Name: "Darasa", Address: "noreply@test.cd"},
		Server: core.ServerConfig{
			Host:                      "localhost",
			Port:                      "0",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 2 * time.Hour,
		},
	}
}

// Logger records log calls per level; implements core.Logger.
type Logger struct {
	mu     sync.Mutex
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
	Fatals []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) record(dest *[]string, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dest = append(*dest, msg)
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.record(&l.Debugs, msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.record(&l.Infos, msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.record(&l.Warns, msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.record(&l.Errors, msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.record(&l.Fatals, msg) }

// ErrorCount reports the number of Error calls recorded so far.
func (l *Logger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Errors)
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	db core.DB,
	name, uname, email, pwd string,
	role user.Role,
	isActive bool,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), db, usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	db core.DB,
	title string,
	teacher user.User,
) course.Course {
	t.Helper()

	crs := course.Course{
		Title:     title,
		Slug:      course.Slugify(title),
		TeacherID: teacher.ID,
		CreatedAt: time.Now().UTC(),
	}
	crs, err := repo.CreateCourse(context.Background(), db, crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateEnrollment(
	t *testing.T,
	repo course.Repository,
	db core.DB,
	crs course.Course,
	student user.User,
	status course.EnrollmentStatus,
) course.Enrollment {
	t.Helper()

	enr := course.Enrollment{
		StudentID: student.ID,
		CourseID:  crs.ID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	enr, err := repo.CreateEnrollment(context.Background(), db, enr)
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}
