package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

type stubClassifier struct {
	res   Analysis
	err   error
	block bool
}

func (s *stubClassifier) Analyze(ctx context.Context, text, link string) (Analysis, error) {
	if s.block {
		<-ctx.Done()
		return Analysis{}, ctx.Err()
	}
	return s.res, s.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestGatewayUsesExternalResult(t *testing.T) {
	ext := &stubClassifier{res: Analysis{Label: entity.LabelLikelyFalse, Summary: "model summary", Confidence: 0.82}}
	g := NewGateway(ext, time.Second, quietLogger())
	res := g.Analyze(context.Background(), "anything", "")
	assert.Equal(t, ext.res, res)
}

func TestGatewayFallsBackOnError(t *testing.T) {
	ext := &stubClassifier{err: errors.New("upstream 500")}
	g := NewGateway(ext, time.Second, quietLogger())
	res := g.Analyze(context.Background(), "Officials confirmed the bridge reopened", "")
	assert.Equal(t, entity.LabelLikelyTrue, res.Label)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
}

func TestGatewayFallsBackWhenUnconfigured(t *testing.T) {
	g := NewGateway(nil, time.Second, quietLogger())
	res := g.Analyze(context.Background(), "plain statement", "")
	assert.Equal(t, entity.LabelUnclear, res.Label)
	assert.Equal(t, 0.5, res.Confidence)
}

func TestGatewayBoundsSlowClassifier(t *testing.T) {
	g := NewGateway(&stubClassifier{block: true}, 20*time.Millisecond, quietLogger())
	start := time.Now()
	res := g.Analyze(context.Background(), "no signals here", "")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, entity.LabelUnclear, res.Label)
}
