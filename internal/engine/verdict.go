package engine

import (
	"math"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

// Verdict is the derived community judgment on a claim. It is never
// persisted: it is recomputed on every read as a pure function of the claim
// and its verification ledger.
type Verdict struct {
	Label         entity.Label `json:"label"`
	Confidence    float64      `json:"confidence"`
	SupportCount  int          `json:"support_count"`
	RefuteCount   int          `json:"refute_count"`
	UnclearCount  int          `json:"unclear_count"`
	SupportWeight float64      `json:"support_weight"`
	RefuteWeight  float64      `json:"refute_weight"`
	UnclearWeight float64      `json:"unclear_weight"`
}

// Params holds the tunable blend and adjustment constants. The defaults are
// validated by the aggregator and reputation property tests; deployments may
// tune them without touching the engine.
type Params struct {
	// VoteBlend and PriorBlend weigh community confidence against the
	// claim's original machine confidence, damping early-voter swings.
	VoteBlend  float64
	PriorBlend float64
	// LabelThreshold is the minimum blended confidence for a non-Unclear label.
	LabelThreshold float64
	// AgreeDelta/DisagreeDelta are asymmetric so reputation loss is slower
	// than gain.
	AgreeDelta    float64
	DisagreeDelta float64
}

// DefaultParams returns the stock engine tuning.
func DefaultParams() Params {
	return Params{
		VoteBlend:      0.6,
		PriorBlend:     0.4,
		LabelThreshold: 0.6,
		AgreeDelta:     0.02,
		DisagreeDelta:  0.01,
	}
}

// tally sums per-stance counts and weights. Weights come from each
// verification's frozen submission-time snapshot, never live reputation, so
// the same ledger always produces the same tallies.
func tally(verifs []*entity.Verification) Verdict {
	var v Verdict
	for _, verif := range verifs {
		switch verif.Stance {
		case entity.StanceSupport:
			v.SupportCount++
			v.SupportWeight += verif.WeightAtSubmission
		case entity.StanceRefute:
			v.RefuteCount++
			v.RefuteWeight += verif.WeightAtSubmission
		case entity.StanceUnclear:
			v.UnclearCount++
			v.UnclearWeight += verif.WeightAtSubmission
		}
	}
	return v
}

// dominantStance returns the stance with the highest weight, the highest and
// second-highest weights, and whether the top weight is tied.
func dominantStance(v Verdict) (entity.Stance, float64, float64, bool) {
	type sw struct {
		stance entity.Stance
		weight float64
	}
	all := [3]sw{
		{entity.StanceSupport, v.SupportWeight},
		{entity.StanceRefute, v.RefuteWeight},
		{entity.StanceUnclear, v.UnclearWeight},
	}
	top := all[0]
	second := 0.0
	for _, c := range all[1:] {
		if c.weight > top.weight {
			second = top.weight
			top = c
		} else if c.weight > second {
			second = c.weight
		}
	}
	return top.stance, top.weight, second, top.weight == second
}

// ComputeVerdict aggregates a claim's verifications into a verdict. The
// result is order-independent (summation commutes) and idempotent: repeated
// calls over the same ledger return identical values.
func (p Params) ComputeVerdict(claim *entity.Claim, verifs []*entity.Verification) Verdict {
	if len(verifs) == 0 {
		label := claim.AILabel
		if label == "" {
			label = entity.LabelUnverified
		}
		return Verdict{Label: label, Confidence: claim.AIConfidence}
	}

	v := tally(verifs)
	total := v.SupportWeight + v.RefuteWeight + v.UnclearWeight
	dominant, top, second, tied := dominantStance(v)

	// 0.5 under a perfect tie, approaching 1.0 under unanimity.
	voteConfidence := 0.5 + 0.5*(top-second)/total

	confidence := p.VoteBlend*voteConfidence + p.PriorBlend*claim.AIConfidence
	confidence = math.Min(1, math.Max(0, confidence))
	v.Confidence = confidence

	v.Label = entity.LabelUnclear
	if !tied && confidence >= p.LabelThreshold {
		switch dominant {
		case entity.StanceSupport:
			v.Label = entity.LabelLikelyTrue
		case entity.StanceRefute:
			v.Label = entity.LabelLikelyFalse
		}
	}
	return v
}
