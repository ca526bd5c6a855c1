package sqlite

import (
	"context"

	"github.com/oksasatya/event-registration/internal/domain/entity"
)

func (s *store) InsertUser(ctx context.Context, u *entity.User) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	createdAt := s.now().UTC()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO users (email, name, created_at) VALUES (?, ?, ?)`,
		u.Email, u.Name, toMillis(createdAt),
	)
	if err != nil {
		return mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	u.CreatedAt = fromMillis(toMillis(createdAt))
	return nil
}

func (s *store) FindUser(ctx context.Context, id int64) (*entity.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	u := &entity.User{}
	var createdAt int64
	err := s.q.QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &createdAt)
	if err != nil {
		return nil, mapError(err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}
