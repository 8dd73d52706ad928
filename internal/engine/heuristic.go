package engine

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

// Keyword signals used when no external classifier is available. Matching is
// whole-word and case-insensitive, so "officials" does not trip "official".
var (
	trueSignals  = compileSignals("confirmed", "official", "verified", "according to", "peer-reviewed")
	falseSignals = compileSignals("hoax", "fake", "debunked", "false", "conspiracy")
)

func compileSignals(words ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return res
}

const (
	heuristicMinConfidence = 0.5
	heuristicMaxConfidence = 0.95
	heuristicMargin        = 0.15
	summaryMaxLen          = 160
)

// Heuristic is the deterministic keyword-based fallback classifier. It has no
// state and no I/O; the same input always yields the same result.
type Heuristic struct{}

// Classify scans the lowercased text for true/false signal keywords and maps
// the signal margin to a label and confidence. Confidence never exceeds 0.95:
// keyword counting is not grounds for absolute certainty.
func (Heuristic) Classify(text, link string) Analysis {
	lowered := strings.ToLower(text)
	t := countSignals(lowered, trueSignals)
	f := countSignals(lowered, falseSignals)

	summary := summarize(text)
	if t == 0 && f == 0 {
		return Analysis{Label: entity.LabelUnclear, Summary: summary, Confidence: 0.5}
	}

	margin := float64(t-f) / float64(t+f)
	label := entity.LabelUnclear
	switch {
	case margin > heuristicMargin:
		label = entity.LabelLikelyTrue
	case margin < -heuristicMargin:
		label = entity.LabelLikelyFalse
	}

	confidence := 0.5 + 0.5*math.Abs(margin)
	confidence = math.Min(heuristicMaxConfidence, math.Max(heuristicMinConfidence, confidence))
	return Analysis{Label: label, Summary: summary, Confidence: confidence}
}

// Analyze satisfies Classifier; the heuristic cannot fail.
func (h Heuristic) Analyze(_ context.Context, text, link string) (Analysis, error) {
	return h.Classify(text, link), nil
}

func countSignals(lowered string, signals []*regexp.Regexp) int {
	n := 0
	for _, re := range signals {
		if re.MatchString(lowered) {
			n++
		}
	}
	return n
}

// summarize returns the first 160 characters of text, trimmed back to a word
// boundary so the snippet never ends mid-word. Truncation counts runes, not
// bytes, so multibyte text is never cut mid-character.
func summarize(text string) string {
	s := strings.TrimSpace(text)
	runes := []rune(s)
	if len(runes) <= summaryMaxLen {
		return s
	}
	cut := string(runes[:summaryMaxLen])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:")
}
