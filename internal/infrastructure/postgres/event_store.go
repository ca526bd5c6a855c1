package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/event-registration/internal/domain/entity"
)

const eventColumns = `id, title, datetime, location, capacity, created_at, updated_at`

func (s *store) InsertEvent(ctx context.Context, e *entity.Event) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	row := s.q.QueryRow(ctx, `
		INSERT INTO events (title, datetime, location, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.Title, e.Datetime.UTC(), e.Location, e.Capacity)

	return mapError(row.Scan(&e.ID, &e.CreatedAt))
}

func (s *store) FindEvent(ctx context.Context, id int64) (*entity.Event, error) {
	return s.findEvent(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

// LockEvent takes a row lock that blocks other LockEvent calls on the same
// event until this transaction ends.
func (s *store) LockEvent(ctx context.Context, id int64) (*entity.Event, error) {
	return s.findEvent(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)
}

func (s *store) findEvent(ctx context.Context, query string, id int64) (*entity.Event, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := scanEvent(s.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (s *store) ListEventsAfter(ctx context.Context, t time.Time) ([]entity.Event, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rows, err := s.q.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE datetime > $1
		ORDER BY datetime ASC, location ASC
	`, t.UTC())
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

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

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	if err := row.Scan(&e.ID, &e.Title, &e.Datetime, &e.Location, &e.Capacity, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}
