package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/oksasatya/event-registration/internal/domain/entity"
)

const eventColumns = `id, title, datetime, location, capacity, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *store) InsertEvent(ctx context.Context, e *entity.Event) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	createdAt := s.now().UTC()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO events (title, datetime, location, capacity, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Title, toMillis(e.Datetime), e.Location, e.Capacity, toMillis(createdAt),
	)
	if err != nil {
		return mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	e.CreatedAt = fromMillis(toMillis(createdAt))
	return nil
}

func (s *store) FindEvent(ctx context.Context, id int64) (*entity.Event, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := scanEvent(s.q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// LockEvent is a plain read: the transaction already holds the database
// write lock taken by BEGIN IMMEDIATE.
func (s *store) LockEvent(ctx context.Context, id int64) (*entity.Event, error) {
	return s.FindEvent(ctx, id)
}

func (s *store) ListEventsAfter(ctx context.Context, t time.Time) ([]entity.Event, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rows, err := s.q.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE datetime > ?
		ORDER BY datetime ASC, location ASC
	`, toMillis(t))
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	events := []entity.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanEvent(row rowScanner) (*entity.Event, error) {
	var (
		e                   entity.Event
		datetime, createdAt int64
		updatedAt           sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Title, &datetime, &e.Location, &e.Capacity, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.Datetime = fromMillis(datetime)
	e.CreatedAt = fromMillis(createdAt)
	if updatedAt.Valid {
		ts := fromMillis(updatedAt.Int64)
		e.UpdatedAt = &ts
	}
	return &e, nil
}
