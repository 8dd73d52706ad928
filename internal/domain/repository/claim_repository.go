package repository

import (
	"context"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

// ClaimRepository defines the interface for claim persistence.
type ClaimRepository interface {
	Create(ctx context.Context, c *entity.Claim) error
	GetByID(ctx context.Context, id string) (*entity.Claim, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Claim, error)
	SetMediaURL(ctx context.Context, id, mediaURL string) error
}

// VerificationRepository is an append-only evidence ledger; verifications are
// never updated or deleted once written.
type VerificationRepository interface {
	Append(ctx context.Context, v *entity.Verification) error
	ListByClaim(ctx context.Context, claimID string) ([]*entity.Verification, error)
}
