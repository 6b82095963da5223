package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// UnitOfWork manages transactional boundaries. The callback receives a DBTX
// backed by a *sql.Tx; callers create tx-scoped repositories from it.
//
// WithinScopedTx additionally serializes every transaction sharing the same
// scope key. Rollup ascents read children and write parents in separate
// statements, so two mutations under one root must not interleave.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
	WithinScopedTx(ctx context.Context, scope string, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork using database/sql transactions.
type SQLiteUnitOfWork struct {
	db    *sql.DB
	locks *ScopeLocks
}

// NewSQLiteUnitOfWork creates a UnitOfWork backed by the given *sql.DB.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db, locks: NewScopeLocks()}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (u *SQLiteUnitOfWork) WithinScopedTx(ctx context.Context, scope string, fn func(ctx context.Context, tx DBTX) error) error {
	unlock, err := u.locks.Lock(ctx, scope)
	if err != nil {
		return err
	}
	defer unlock()
	return u.WithinTx(ctx, fn)
}

// ScopeLocks is a set of mutexes keyed by scope (a project's root). Waiting
// for a lock honours context cancellation. A scope's slot exists only while
// someone holds or waits for it.
type ScopeLocks struct {
	mu    sync.Mutex
	slots map[string]*scopeSlot
}

type scopeSlot struct {
	ch   chan struct{}
	refs int
}

func NewScopeLocks() *ScopeLocks {
	return &ScopeLocks{slots: make(map[string]*scopeSlot)}
}

// Lock blocks until scope is free or ctx is done. The returned func releases it.
func (l *ScopeLocks) Lock(ctx context.Context, scope string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[scope]
	if !ok {
		slot = &scopeSlot{ch: make(chan struct{}, 1)}
		l.slots[scope] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.ch
				l.release(scope, slot)
			})
		}, nil
	case <-ctx.Done():
		l.release(scope, slot)
		return nil, fmt.Errorf("waiting for lock on %s: %w", scope, ctx.Err())
	}
}

func (l *ScopeLocks) release(scope string, slot *scopeSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, scope)
	}
}

// Len reports how many scopes are currently held or awaited.
func (l *ScopeLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
