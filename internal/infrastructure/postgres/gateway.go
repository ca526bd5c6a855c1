package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/event-registration/internal/domain/repository"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// store runs queries against either the pool or an open transaction.
type store struct {
	q       querier
	timeout time.Duration
}

func (s *store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Gateway is the Postgres-backed storage gateway.
type Gateway struct {
	*store
	pool *pgxpool.Pool
}

// NewGateway wraps pool. Every statement, and every transaction as a whole,
// is bounded by timeout (zero disables the bound).
func NewGateway(pool *pgxpool.Pool, timeout time.Duration) *Gateway {
	return &Gateway{store: &store{q: pool, timeout: timeout}, pool: pool}
}

// WithinEventTx runs fn in a READ COMMITTED transaction. Isolation against
// concurrent registrations comes from LockEvent's row lock, which later
// statements of the same transaction observe with a fresh snapshot.
func (g *Gateway) WithinEventTx(ctx context.Context, fn func(q repository.Queries) error) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	tx, err := g.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&store{q: tx, timeout: g.timeout}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (g *Gateway) Close() {
	g.pool.Close()
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

var _ repository.Gateway = (*Gateway)(nil)
