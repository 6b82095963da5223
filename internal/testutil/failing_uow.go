package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/planline/internal/db"
)

// FailOnNthExecUoW wraps every transaction so that its FailOn-th write
// (counted from 1) returns Err instead of reaching SQLite. Reads are never
// counted. A failing write rolls the whole transaction back, which is how
// tests prove a leaf edit and its rollup ascent commit or vanish together.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs  atomic.Int32
	failed atomic.Value
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	counting := &countingTx{DBTX: tx, uow: u}
	fnErr := fn(ctx, counting)
	u.execs.Store(counting.n.Load())
	if fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// WithinScopedTx ignores the scope; tests drive one mutation at a time.
func (u *FailOnNthExecUoW) WithinScopedTx(ctx context.Context, _ string, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.WithinTx(ctx, fn)
}

// Execs reports how many writes the most recent transaction attempted,
// including the injected failure.
func (u *FailOnNthExecUoW) Execs() int {
	return int(u.execs.Load())
}

// FailedStatement returns the leading keywords of the statement that got the
// injected error, e.g. "INSERT INTO task_costs", or "" if nothing failed.
func (u *FailOnNthExecUoW) FailedStatement() string {
	s, _ := u.failed.Load().(string)
	return s
}

type countingTx struct {
	db.DBTX
	uow *FailOnNthExecUoW
	n   atomic.Int32
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.n.Add(1) == c.uow.FailOn {
		c.uow.failed.Store(statementHead(query))
		return nil, c.uow.Err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}

func statementHead(query string) string {
	fields := strings.Fields(query)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}
