package engine

import (
	"math"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

// AdjustedReputation scores a new vote against the consensus that existed
// before it was counted, so a vote can never reward itself. It returns the
// author's updated reputation, clamped to [0.1, 5.0].
//
// No consensus yet (empty ledger, zero total weight, or tied dominant
// weights) means no adjustment: first voters are never rewarded or penalized.
func (p Params) AdjustedReputation(prior []*entity.Verification, stance entity.Stance, current float64) float64 {
	v := tally(prior)
	total := v.SupportWeight + v.RefuteWeight + v.UnclearWeight
	if total == 0 {
		return current
	}
	dominant, _, _, tied := dominantStance(v)
	if tied {
		return current
	}
	if stance == dominant {
		return math.Min(entity.ReputationMax, current+p.AgreeDelta)
	}
	return math.Max(entity.ReputationMin, current-p.DisagreeDelta)
}
