package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerfact/peerfact/internal/domain/entity"
	"github.com/peerfact/peerfact/internal/domain/repository"
)

type ClaimRepository struct {
	pool *pgxpool.Pool
}

func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

func (r *ClaimRepository) Create(ctx context.Context, c *entity.Claim) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO claims (author_id, text, link, media_url, ai_label, ai_summary, ai_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, c.AuthorID, c.Text, c.Link, c.MediaURL, string(c.AILabel), c.AISummary, c.AIConfidence)

	return row.Scan(&c.ID, &c.CreatedAt)
}

func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	c := &entity.Claim{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, author_id, text, link, media_url, ai_label, ai_summary, ai_confidence, created_at
		FROM claims
		WHERE id = $1
	`, id)

	if err := scanClaim(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ClaimRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Claim, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, text, link, media_url, ai_label, ai_summary, ai_confidence, created_at
		FROM claims
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*entity.Claim
	for rows.Next() {
		c := &entity.Claim{}
		if err := scanClaim(rows, c); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// SetMediaURL attaches an uploaded media object to a claim. The AI fields and
// text stay immutable; media is the only post-creation write.
func (r *ClaimRepository) SetMediaURL(ctx context.Context, id, mediaURL string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE claims
		SET media_url = $1
		WHERE id = $2
	`, mediaURL, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanClaim(row pgx.Row, c *entity.Claim) error {
	var label string
	if err := row.Scan(&c.ID, &c.AuthorID, &c.Text, &c.Link, &c.MediaURL,
		&label, &c.AISummary, &c.AIConfidence, &c.CreatedAt); err != nil {
		return err
	}
	c.AILabel = entity.Label(label)
	return nil
}

var _ repository.ClaimRepository = (*ClaimRepository)(nil)
