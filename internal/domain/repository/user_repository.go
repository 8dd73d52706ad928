package repository

import (
	"context"
	"errors"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

// Shared store errors. Repositories return ErrNotFound for missing rows and
// ErrConflict when a compare-and-swap update loses a race.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByDisplayName(ctx context.Context, name string) (*entity.User, error)
	// UpdateReputation performs a single-row compare-and-swap: the update only
	// applies while the stored reputation still equals expected, otherwise
	// ErrConflict is returned and the caller must re-read and retry.
	UpdateReputation(ctx context.Context, id string, newValue, expected float64) error
	Deactivate(ctx context.Context, id string) error
}
