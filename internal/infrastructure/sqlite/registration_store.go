package sqlite

import (
	"context"

	"github.com/oksasatya/event-registration/internal/domain/entity"
)

func (s *store) InsertRegistration(ctx context.Context, userID, eventID int64) (*entity.Registration, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	registeredAt := fromMillis(toMillis(s.now()))
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO registrations (user_id, event_id, registered_at) VALUES (?, ?, ?)`,
		userID, eventID, toMillis(registeredAt),
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &entity.Registration{UserID: userID, EventID: eventID, RegisteredAt: registeredAt}, nil
}

func (s *store) DeleteRegistration(ctx context.Context, userID, eventID int64) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.q.ExecContext(ctx,
		`DELETE FROM registrations WHERE user_id = ? AND event_id = ?`, userID, eventID,
	)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}

func (s *store) FindRegistration(ctx context.Context, userID, eventID int64) (*entity.Registration, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	r := &entity.Registration{}
	var registeredAt int64
	err := s.q.QueryRowContext(ctx,
		`SELECT user_id, event_id, registered_at FROM registrations WHERE user_id = ? AND event_id = ?`,
		userID, eventID,
	).Scan(&r.UserID, &r.EventID, &registeredAt)
	if err != nil {
		return nil, mapError(err)
	}
	r.RegisteredAt = fromMillis(registeredAt)
	return r, nil
}

func (s *store) CountRegistrations(ctx context.Context, eventID int64) (int, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var n int
	if err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID,
	).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (s *store) ListRegistrants(ctx context.Context, eventID int64) ([]entity.Registrant, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rows, err := s.q.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, r.registered_at
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = ?
		ORDER BY r.registered_at ASC, u.id ASC
	`, eventID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []entity.Registrant{}
	for rows.Next() {
		var (
			r            entity.Registrant
			registeredAt int64
		)
		if err := rows.Scan(&r.UserID, &r.Name, &r.Email, &registeredAt); err != nil {
			return nil, err
		}
		r.RegisteredAt = fromMillis(registeredAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
