package entity

import "time"

// Stance is a verification's position on a claim.
type Stance string

const (
	StanceSupport Stance = "support"
	StanceRefute  Stance = "refute"
	StanceUnclear Stance = "unclear"
)

// ValidStance reports whether s is one of the three known stances.
func ValidStance(s Stance) bool {
	switch s {
	case StanceSupport, StanceRefute, StanceUnclear:
		return true
	}
	return false
}

// Verification is an append-only evidence record. WeightAtSubmission is the
// author's reputation frozen at submission time; later reputation changes
// never rewrite it, which keeps verdicts replayable from the ledger alone.
type Verification struct {
	ID                 string
	ClaimID            string
	AuthorID           string
	Stance             Stance
	SourceURL          string
	Explanation        string
	WeightAtSubmission float64
	CreatedAt          time.Time
}
