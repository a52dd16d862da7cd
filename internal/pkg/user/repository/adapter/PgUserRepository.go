package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u user.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, email, platform_connected
		FROM users
		WHERE id = $1::uuid
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.PlatformConnected)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) FindByNameAmong(ctx context.Context, name string, candidateIDs []string) (*user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	if name == "" || len(candidateIDs) == 0 {
		return nil, user.ErrNotFound
	}
	var u user.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, email, platform_connected
		FROM users
		WHERE lower(name) = lower($1) AND id = ANY($2::uuid[])
		ORDER BY created_at
		LIMIT 1
	`, name, candidateIDs).Scan(&u.ID, &u.Name, &u.Email, &u.PlatformConnected)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) SetPlatformConnected(ctx context.Context, id string, connected bool) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE users SET platform_connected = $2 WHERE id = $1::uuid
	`, id, connected)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
