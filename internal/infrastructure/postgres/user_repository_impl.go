package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerfact/peerfact/internal/domain/entity"
	"github.com/peerfact/peerfact/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (display_name, password_hash, reputation, is_anonymous)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`, u.DisplayName, u.PasswordHash, u.Reputation, u.IsAnonymous)

	if err := row.Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, display_name, password_hash, reputation, is_anonymous, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.DisplayName, &u.PasswordHash, &u.Reputation,
		&u.IsAnonymous, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByDisplayName(ctx context.Context, name string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, display_name, password_hash, reputation, is_anonymous, is_active, created_at, updated_at
		FROM users
		WHERE display_name = $1
	`, name)

	if err := row.Scan(&u.ID, &u.DisplayName, &u.PasswordHash, &u.Reputation,
		&u.IsAnonymous, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateReputation is a single-row compare-and-swap: the WHERE clause pins
// the expected value, so of two racing adjustments one matches zero rows and
// gets ErrConflict instead of silently losing its update.
func (r *UserRepository) UpdateReputation(ctx context.Context, id string, newValue, expected float64) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reputation = $1, updated_at = now()
		WHERE id = $2 AND reputation = $3
	`, newValue, id, expected)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_active = false, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
