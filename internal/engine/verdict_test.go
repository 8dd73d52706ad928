package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

func verif(stance entity.Stance, weight float64) *entity.Verification {
	return &entity.Verification{Stance: stance, WeightAtSubmission: weight}
}

func TestVerdictEmptyLedgerEchoesClaim(t *testing.T) {
	claim := &entity.Claim{AILabel: entity.LabelLikelyTrue, AIConfidence: 0.8}
	v := DefaultParams().ComputeVerdict(claim, nil)
	assert.Equal(t, entity.LabelLikelyTrue, v.Label)
	assert.Equal(t, 0.8, v.Confidence)
	assert.Zero(t, v.SupportCount)
	assert.Zero(t, v.SupportWeight+v.RefuteWeight+v.UnclearWeight)
}

func TestVerdictEmptyLedgerUnclassifiedClaim(t *testing.T) {
	v := DefaultParams().ComputeVerdict(&entity.Claim{}, nil)
	assert.Equal(t, entity.LabelUnverified, v.Label)
	assert.Zero(t, v.Confidence)
}

func TestVerdictPerfectTie(t *testing.T) {
	// One support, one refute at weight 1.0 on a 0.5-confidence claim:
	// voteConfidence 0.5, blended 0.6*0.5+0.4*0.5 = 0.5, label unclear.
	claim := &entity.Claim{AIConfidence: 0.5}
	v := DefaultParams().ComputeVerdict(claim, []*entity.Verification{
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceRefute, 1.0),
	})
	assert.Equal(t, entity.LabelUnclear, v.Label)
	assert.InDelta(t, 0.5, v.Confidence, 1e-12)
	assert.Equal(t, 1, v.SupportCount)
	assert.Equal(t, 1, v.RefuteCount)
}

func TestVerdictUnanimousSupport(t *testing.T) {
	claim := &entity.Claim{AIConfidence: 0.9}
	v := DefaultParams().ComputeVerdict(claim, []*entity.Verification{
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceSupport, 1.5),
		verif(entity.StanceSupport, 2.0),
	})
	// Unanimity: voteConfidence 1.0, blended 0.6 + 0.4*0.9 = 0.96.
	assert.Equal(t, entity.LabelLikelyTrue, v.Label)
	assert.InDelta(t, 0.96, v.Confidence, 1e-12)
	assert.Equal(t, 3, v.SupportCount)
	assert.Equal(t, 4.5, v.SupportWeight)
}

func TestVerdictRefuteDominant(t *testing.T) {
	claim := &entity.Claim{AIConfidence: 0.5}
	v := DefaultParams().ComputeVerdict(claim, []*entity.Verification{
		verif(entity.StanceRefute, 2.0),
		verif(entity.StanceRefute, 2.0),
		verif(entity.StanceSupport, 1.0),
	})
	assert.Equal(t, entity.LabelLikelyFalse, v.Label)
	assert.Greater(t, v.Confidence, 0.6)
}

func TestVerdictDominantBelowThresholdStaysUnclear(t *testing.T) {
	// Slim majority with a low machine prior keeps the blend under 0.6.
	claim := &entity.Claim{AIConfidence: 0.0}
	v := DefaultParams().ComputeVerdict(claim, []*entity.Verification{
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceRefute, 1.0),
		verif(entity.StanceUnclear, 1.0),
	})
	assert.Equal(t, entity.LabelUnclear, v.Label)
}

func TestVerdictOrderIndependent(t *testing.T) {
	claim := &entity.Claim{AILabel: entity.LabelUnclear, AIConfidence: 0.5}
	verifs := []*entity.Verification{
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceSupport, 0.5),
		verif(entity.StanceRefute, 2.0),
		verif(entity.StanceUnclear, 0.25),
		verif(entity.StanceRefute, 1.5),
		verif(entity.StanceSupport, 3.0),
	}
	want := DefaultParams().ComputeVerdict(claim, verifs)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		shuffled := make([]*entity.Verification, len(verifs))
		copy(shuffled, verifs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, DefaultParams().ComputeVerdict(claim, shuffled))
	}
}

func TestVerdictRecomputeIsIdentical(t *testing.T) {
	claim := &entity.Claim{AILabel: entity.LabelLikelyFalse, AIConfidence: 0.7}
	verifs := []*entity.Verification{
		verif(entity.StanceRefute, 1.25),
		verif(entity.StanceSupport, 0.75),
	}
	first := DefaultParams().ComputeVerdict(claim, verifs)
	second := DefaultParams().ComputeVerdict(claim, verifs)
	assert.Equal(t, first, second)
}

func TestVerdictConfidenceClamped(t *testing.T) {
	claim := &entity.Claim{AIConfidence: 1.0}
	v := DefaultParams().ComputeVerdict(claim, []*entity.Verification{
		verif(entity.StanceSupport, 5.0),
	})
	assert.LessOrEqual(t, v.Confidence, 1.0)
	assert.GreaterOrEqual(t, v.Confidence, 0.0)
}
