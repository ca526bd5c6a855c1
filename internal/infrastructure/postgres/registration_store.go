package postgres

import (
	"context"

	"github.com/oksasatya/event-registration/internal/domain/entity"
)

func (s *store) InsertRegistration(ctx context.Context, userID, eventID int64) (*entity.Registration, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	r := &entity.Registration{UserID: userID, EventID: eventID}
	row := s.q.QueryRow(ctx, `
		INSERT INTO registrations (user_id, event_id)
		VALUES ($1, $2)
		RETURNING registered_at
	`, userID, eventID)

	if err := row.Scan(&r.RegisteredAt); err != nil {
		return nil, mapError(err)
	}
	return r, nil
}

func (s *store) DeleteRegistration(ctx context.Context, userID, eventID int64) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.q.Exec(ctx, `
		DELETE FROM registrations
		WHERE user_id = $1 AND event_id = $2
	`, userID, eventID)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected(), nil
}

func (s *store) FindRegistration(ctx context.Context, userID, eventID int64) (*entity.Registration, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	r := &entity.Registration{}
	row := s.q.QueryRow(ctx, `
		SELECT user_id, event_id, registered_at
		FROM registrations
		WHERE user_id = $1 AND event_id = $2
	`, userID, eventID)

	if err := row.Scan(&r.UserID, &r.EventID, &r.RegisteredAt); err != nil {
		return nil, mapError(err)
	}
	return r, nil
}

func (s *store) CountRegistrations(ctx context.Context, eventID int64) (int, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var n int
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (s *store) ListRegistrants(ctx context.Context, eventID int64) ([]entity.Registrant, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rows, err := s.q.Query(ctx, `
		SELECT u.id, u.name, u.email, r.registered_at
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at ASC, u.id ASC
	`, eventID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []entity.Registrant{}
	for rows.Next() {
		var r entity.Registrant
		if err := rows.Scan(&r.UserID, &r.Name, &r.Email, &r.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
