package db

import (
	"context"
	"database/sql"
)

// DBTX is what the plan, app-state and staging repositories query through.
// Outside a unit of work it is the store's *sql.DB; inside one it is the
// transaction, so a plan save and a bucket clear land together.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
