package postgres

import (
	"context"

	"github.com/oksasatya/event-registration/internal/domain/entity"
)

func (s *store) InsertUser(ctx context.Context, u *entity.User) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	row := s.q.QueryRow(ctx, `
		INSERT INTO users (email, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, u.Email, u.Name)

	return mapError(row.Scan(&u.ID, &u.CreatedAt))
}

func (s *store) FindUser(ctx context.Context, id int64) (*entity.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	u := &entity.User{}

	row := s.q.QueryRow(ctx, `
		SELECT id, email, name, created_at
		FROM users
		WHERE id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}

	return u, nil
}
