package entity

import "time"

// Reputation bounds enforced by the reputation adjuster.
// Users are never deleted, only deactivated.
const (
	ReputationMin     = 0.1
	ReputationMax     = 5.0
	ReputationDefault = 1.0
)

// User is the aggregate root for the user domain.
// Reputation is mutated only through the reputation adjuster's
// compare-and-swap update; PasswordHash is empty for anonymous users.
type User struct {
	ID           string
	DisplayName  string
	PasswordHash string
	Reputation   float64
	IsAnonymous  bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
