package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

func TestHeuristicConfirmedOfficialReport(t *testing.T) {
	// "Officials" must not whole-word-match "official"; only "confirmed"
	// counts, so t=1, f=0, margin=1.0.
	res := Heuristic{}.Classify("Officials confirmed the bridge reopened", "")
	assert.Equal(t, entity.LabelLikelyTrue, res.Label)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
}

func TestHeuristicNoSignals(t *testing.T) {
	res := Heuristic{}.Classify("The bridge reopened this morning", "")
	assert.Equal(t, entity.LabelUnclear, res.Label)
	assert.Equal(t, 0.5, res.Confidence)
}

func TestHeuristicFalseSignalsDominate(t *testing.T) {
	res := Heuristic{}.Classify("This hoax was debunked as fake", "")
	assert.Equal(t, entity.LabelLikelyFalse, res.Label)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
}

func TestHeuristicMixedSignalsWithinMargin(t *testing.T) {
	// One true signal vs one false signal: margin 0, stays unclear.
	res := Heuristic{}.Classify("Officially confirmed? Others call it fake.", "")
	assert.Equal(t, entity.LabelUnclear, res.Label)
	assert.Equal(t, 0.5, res.Confidence)
}

func TestHeuristicMultiWordSignal(t *testing.T) {
	res := Heuristic{}.Classify("According to a peer-reviewed study the vaccine works", "")
	assert.Equal(t, entity.LabelLikelyTrue, res.Label)
}

func TestHeuristicDeterministic(t *testing.T) {
	text := "Verified by officials, though some call it a conspiracy"
	first := Heuristic{}.Classify(text, "")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Heuristic{}.Classify(text, ""))
	}
}

func TestHeuristicConfidenceNeverCertain(t *testing.T) {
	// All five true signals present: margin 1.0 still clamps below 1.0.
	res := Heuristic{}.Classify("confirmed official verified according to peer-reviewed", "")
	assert.LessOrEqual(t, res.Confidence, 0.95)
	assert.GreaterOrEqual(t, res.Confidence, 0.5)
}

func TestSummaryTrimsAtWordBoundary(t *testing.T) {
	long := strings.Repeat("confirmed evidence ", 20) // 380 chars
	res := Heuristic{}.Classify(long, "")
	require.LessOrEqual(t, len(res.Summary), 160)
	assert.False(t, strings.HasSuffix(res.Summary, " "))
	// Never cut mid-word: the summary must end on a complete token.
	last := res.Summary[strings.LastIndexByte(res.Summary, ' ')+1:]
	assert.Contains(t, []string{"confirmed", "evidence"}, last)
}

func TestSummaryShortTextUntouched(t *testing.T) {
	res := Heuristic{}.Classify("  short claim  ", "")
	assert.Equal(t, "short claim", res.Summary)
}

func TestSummaryMultibyteTruncatesOnRuneBoundary(t *testing.T) {
	// 200 CJK runes, no spaces: truncation must count characters, not
	// bytes, and never leave a broken rune at the tail.
	long := strings.Repeat("事", 200)
	res := Heuristic{}.Classify(long, "")
	require.True(t, utf8.ValidString(res.Summary))
	assert.Equal(t, 160, utf8.RuneCountInString(res.Summary))
	assert.Equal(t, strings.Repeat("事", 160), res.Summary)
}

func TestSummaryMultibyteShortTextUntouched(t *testing.T) {
	res := Heuristic{}.Classify("la réouverture confirmée du pont", "")
	assert.Equal(t, "la réouverture confirmée du pont", res.Summary)
}
