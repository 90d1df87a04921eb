package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/loadplan/internal/db"
)

// ErrInjectedWrite is the default failure returned by FailOnNthExecUoW.
var ErrInjectedWrite = errors.New("injected write failure")

// FailOnNthExecUoW runs each transaction normally until the Nth write
// (ExecContext, counted from 1 per transaction) and fails that write. Reads
// are not counted. Use it to prove a use case leaves no partial state.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	// Execs is the number of writes attempted by the last transaction.
	Execs int
}

func NewFailOnNthExecUoW(database *sql.DB, n int) *FailOnNthExecUoW {
	return &FailOnNthExecUoW{DB: database, FailOn: n, Err: ErrInjectedWrite}
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	counting := &execCounter{DBTX: tx, failOn: u.FailOn, err: u.Err}
	fnErr := fn(ctx, counting)
	u.Execs = counting.n
	if fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type execCounter struct {
	db.DBTX
	n      int
	failOn int
	err    error
}

func (c *execCounter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.n++
	if c.n == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
