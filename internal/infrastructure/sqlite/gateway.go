// Package sqlite provides a SQLite-backed storage gateway for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/internal/infrastructure/migrations"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type store struct {
	q       querier
	timeout time.Duration
	now     func() time.Time
}

func (s *store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Gateway persists events, users and registrations in one SQLite file.
type Gateway struct {
	*store
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
// Transactions start with BEGIN IMMEDIATE so a transaction owns the write
// lock from its first statement; waiting writers block up to busy_timeout.
func Open(path string, timeout time.Duration, logger *logrus.Logger) (*Gateway, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(10000)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrations.UpSQLite(sqlDB, logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Gateway{
		store: &store{q: sqlDB, timeout: timeout, now: time.Now},
		sqlDB: sqlDB,
	}, nil
}

func (g *Gateway) WithinEventTx(ctx context.Context, fn func(q repository.Queries) error) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	tx, err := g.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&store{q: tx, timeout: g.timeout, now: g.now}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (g *Gateway) Close() {
	if g == nil || g.sqlDB == nil {
		return
	}
	_ = g.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
		}
	}
	return err
}

var _ repository.Gateway = (*Gateway)(nil)
