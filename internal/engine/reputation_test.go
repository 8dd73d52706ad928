package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

func TestReputationFirstVoteNeverAdjusts(t *testing.T) {
	p := DefaultParams()
	for _, stance := range []entity.Stance{entity.StanceSupport, entity.StanceRefute, entity.StanceUnclear} {
		assert.Equal(t, 1.0, p.AdjustedReputation(nil, stance, 1.0))
	}
}

func TestReputationAgreeAndDisagreeWithConsensus(t *testing.T) {
	p := DefaultParams()
	prior := []*entity.Verification{
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceSupport, 1.0),
	}
	assert.InDelta(t, 1.02, p.AdjustedReputation(prior, entity.StanceSupport, 1.0), 1e-12)
	assert.InDelta(t, 0.99, p.AdjustedReputation(prior, entity.StanceRefute, 1.0), 1e-12)
	assert.InDelta(t, 0.99, p.AdjustedReputation(prior, entity.StanceUnclear, 1.0), 1e-12)
}

func TestReputationTiedConsensusIsNoConsensus(t *testing.T) {
	p := DefaultParams()
	prior := []*entity.Verification{
		verif(entity.StanceSupport, 1.0),
		verif(entity.StanceRefute, 1.0),
	}
	for _, stance := range []entity.Stance{entity.StanceSupport, entity.StanceRefute, entity.StanceUnclear} {
		assert.Equal(t, 1.0, p.AdjustedReputation(prior, stance, 1.0))
	}
}

func TestReputationCeiling(t *testing.T) {
	p := DefaultParams()
	prior := []*entity.Verification{verif(entity.StanceSupport, 2.0)}
	rep := 4.99
	rep = p.AdjustedReputation(prior, entity.StanceSupport, rep)
	assert.Equal(t, entity.ReputationMax, rep)
	rep = p.AdjustedReputation(prior, entity.StanceSupport, rep)
	assert.Equal(t, entity.ReputationMax, rep)
}

func TestReputationFloor(t *testing.T) {
	p := DefaultParams()
	prior := []*entity.Verification{verif(entity.StanceSupport, 2.0)}
	rep := 0.105
	rep = p.AdjustedReputation(prior, entity.StanceRefute, rep)
	assert.Equal(t, entity.ReputationMin, rep)
	rep = p.AdjustedReputation(prior, entity.StanceRefute, rep)
	assert.Equal(t, entity.ReputationMin, rep)
}

func TestReputationStaysInBoundsUnderRandomSequences(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(7))
	stances := []entity.Stance{entity.StanceSupport, entity.StanceRefute, entity.StanceUnclear}

	rep := 1.0
	var ledger []*entity.Verification
	for i := 0; i < 5000; i++ {
		stance := stances[rng.Intn(len(stances))]
		rep = p.AdjustedReputation(ledger, stance, rep)
		assert.GreaterOrEqual(t, rep, entity.ReputationMin)
		assert.LessOrEqual(t, rep, entity.ReputationMax)
		ledger = append(ledger, verif(stance, rep))
	}
}
