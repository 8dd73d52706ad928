package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessSourceKnownDomains(t *testing.T) {
	cases := []struct {
		url        string
		score      float64
		reputation string
	}{
		{"https://www.reuters.com/world/article", 0.9, "high_credibility"},
		// Fact-checkers in the trusted set rank as trusted; only the
		// dedicated ones get the fact_checker score.
		{"https://snopes.com/fact-check/x", 0.9, "high_credibility"},
		{"https://mediabiasfactcheck.com/x", 0.95, "fact_checker"},
		{"http://infowars.com/story", 0.2, "low_credibility"},
		{"http://breitbart.com/story", 0.2, "low_credibility"},
		{"https://epa.gov/report", 0.8, "government"},
		{"https://mit.edu/paper", 0.8, "academic"},
		{"https://randomblog.com/post", 0.6, "unknown"},
		{"https://weird.xyz/thing", 0.5, "unknown"},
	}
	for _, c := range cases {
		a := AssessSource(c.url)
		assert.Equal(t, c.score, a.Score, c.url)
		assert.Equal(t, c.reputation, a.Reputation, c.url)
	}
}

func TestAssessSourceFactCheckerFlag(t *testing.T) {
	// The flag tracks set membership independently of the score branch.
	assert.True(t, AssessSource("https://politifact.com/x").FactChecker)
	assert.True(t, AssessSource("https://factcheckni.org/x").FactChecker)
	assert.False(t, AssessSource("https://reuters.com/x").FactChecker)
}

func TestAssessSourceEmptyOrBroken(t *testing.T) {
	assert.Equal(t, 0.5, AssessSource("").Score)
	assert.Equal(t, 0.5, AssessSource("::not-a-url").Score)
}
