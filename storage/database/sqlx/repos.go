// Package sqlxrepos implements the domain repositories over Postgres
// using hand-written SQL and sqlx scanning.
package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// queryAll runs query and scans every row into dest (a pointer to a slice of structs).
func queryAll(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "querying")
	}
	defer func() { _ = rows.Close() }()
	return errors.Wrap(sqlx.StructScan(rows, dest), "scanning")
}
