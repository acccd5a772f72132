// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/chat"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/notification"
	"github.com/trezcool/darasa/core/social"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		user         *userTable
		course       *courseTable
		notification *notificationTable
		chat         *chatTable
		social       *socialTable
	}

	userTable struct {
		sync.RWMutex
		seq   int
		table map[int]*user.User
	}

	courseTable struct {
		sync.RWMutex
		courseSeq, enrollmentSeq, materialSeq, feedbackSeq int

		courses     map[int]*course.Course
		enrollments map[int]*course.Enrollment
		materials   map[int]*course.Material
		feedbacks   map[int]*course.Feedback
	}

	notificationTable struct {
		sync.RWMutex
		seq   int
		table map[int]*notification.Notification
	}

	chatTable struct {
		sync.RWMutex
		seq   int
		table map[int]*chat.ChatMessage
	}

	socialTable struct {
		sync.RWMutex
		seq   int
		table map[int]*social.StatusUpdate
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[int]*user.User)},
		course: &courseTable{
			courses:     make(map[int]*course.Course),
			enrollments: make(map[int]*course.Enrollment),
			materials:   make(map[int]*course.Material),
			feedbacks:   make(map[int]*course.Feedback),
		},
		notification: &notificationTable{table: make(map[int]*notification.Notification)},
		chat:         &chatTable{table: make(map[int]*chat.ChatMessage)},
		social:       &socialTable{table: make(map[int]*social.StatusUpdate)},
	}
	return db, nil
}

// DB satisfies core.DB so services built on it can run core.Atomic;
// transactions are no-ops apart from firing post-commit hooks.

var errRawSQL = errors.New("dummydb: raw SQL not supported")

var _ core.DB = (*DB)(nil)

func (db *DB) Exec(string, ...interface{}) (sql.Result, error) { return nil, errRawSQL }
func (db *DB) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errRawSQL
}
func (db *DB) Query(string, ...interface{}) (*sql.Rows, error) { return nil, errRawSQL }
func (db *DB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errRawSQL
}
func (db *DB) QueryRow(string, ...interface{}) *sql.Row { return nil }
func (db *DB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (db *DB) BeginTx(context.Context, *sql.TxOptions) (core.DBTransactor, error) {
	return &dummyTx{DB: db}, nil
}

type dummyTx struct {
	*DB
}

func (tx *dummyTx) Commit() error   { return nil }
func (tx *dummyTx) Rollback() error { return nil }
