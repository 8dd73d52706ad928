package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerfact/peerfact/internal/domain/entity"
	"github.com/peerfact/peerfact/internal/domain/repository"
)

type VerificationRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationRepository(pool *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{pool: pool}
}

// Append writes a new evidence record. There is deliberately no update or
// delete: the ledger is append-only and weight_at_submission is frozen here.
func (r *VerificationRepository) Append(ctx context.Context, v *entity.Verification) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO verifications (claim_id, author_id, stance, source_url, explanation, weight_at_submission)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, v.ClaimID, v.AuthorID, string(v.Stance), v.SourceURL, v.Explanation, v.WeightAtSubmission)

	return row.Scan(&v.ID, &v.CreatedAt)
}

func (r *VerificationRepository) ListByClaim(ctx context.Context, claimID string) ([]*entity.Verification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, claim_id, author_id, stance, source_url, explanation, weight_at_submission, created_at
		FROM verifications
		WHERE claim_id = $1
		ORDER BY created_at DESC
	`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var verifs []*entity.Verification
	for rows.Next() {
		v := &entity.Verification{}
		var stance string
		if err := rows.Scan(&v.ID, &v.ClaimID, &v.AuthorID, &stance,
			&v.SourceURL, &v.Explanation, &v.WeightAtSubmission, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Stance = entity.Stance(stance)
		verifs = append(verifs, v)
	}
	return verifs, rows.Err()
}

var _ repository.VerificationRepository = (*VerificationRepository)(nil)
