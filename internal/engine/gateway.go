package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

// Analysis is the result of classifying a claim's text.
type Analysis struct {
	Label      entity.Label `json:"label"`
	Summary    string       `json:"summary"`
	Confidence float64      `json:"confidence"`
}

// Classifier produces an initial judgment for a claim. Implementations may
// suspend on network I/O and must honor ctx cancellation.
type Classifier interface {
	Analyze(ctx context.Context, text, link string) (Analysis, error)
}

// Gateway tries the external classifier once under a bounded timeout and
// falls back to the keyword heuristic on any failure. Callers always receive
// a usable analysis; classifier errors are logged and never surfaced.
type Gateway struct {
	external  Classifier
	heuristic Heuristic
	timeout   time.Duration
	logger    *logrus.Logger
}

// NewGateway builds a gateway. external may be nil when no classifier is
// configured, in which case every analysis uses the heuristic.
func NewGateway(external Classifier, timeout time.Duration, logger *logrus.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Gateway{external: external, timeout: timeout, logger: logger}
}

// Analyze never fails. A single attempt is made against the external
// classifier; claim creation must not block on retries, so a failed attempt
// immediately resolves to the heuristic.
func (g *Gateway) Analyze(ctx context.Context, text, link string) Analysis {
	if g.external != nil {
		cctx, cancel := context.WithTimeout(ctx, g.timeout)
		res, err := g.external.Analyze(cctx, text, link)
		cancel()
		if err == nil {
			return res
		}
		if g.logger != nil {
			g.logger.WithError(err).Warn("external classifier failed, using heuristic")
		}
	}
	return g.heuristic.Classify(text, link)
}
