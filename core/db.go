package core

import (
	"context"
	"database/sql"
)

type (
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}

	DB interface {
		DBExecutor

		BeginTx(context.Context, *sql.TxOptions) (DBTransactor, error)
	}
)

// sqlDB adapts *sql.DB to the DB interface.
type sqlDB struct{ *sql.DB }

func WrapDB(db *sql.DB) DB { return sqlDB{db} }

func (d sqlDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (DBTransactor, error) {
	return d.DB.BeginTx(ctx, opts)
}

// Tx is a transaction handle with a post-commit hook queue.
// Hooks registered via AfterCommit run only once the transaction commits;
// they are discarded on rollback and never requeued on a retried commit.
type Tx struct {
	DBTransactor
	hooks []func()
}

// AfterCommit queues a hook to run after (and only if) the transaction commits.
// Hooks run in registration order.
func (tx *Tx) AfterCommit(hook func()) {
	tx.hooks = append(tx.hooks, hook)
}

func (tx *Tx) Commit() error {
	if err := tx.DBTransactor.Commit(); err != nil {
		return err
	}
	hooks := tx.hooks
	tx.hooks = nil // drain once
	for _, hook := range hooks {
		hook()
	}
	return nil
}

// Atomic runs fn within a transaction, committing on nil error
// and rolling back otherwise.
func Atomic(ctx context.Context, db DB, fn func(tx *Tx) error) error {
	dbtx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	tx := &Tx{DBTransactor: dbtx}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
