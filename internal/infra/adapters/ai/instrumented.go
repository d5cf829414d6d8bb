package ai

import (
	"context"
	"errors"
	"time"

	"slack-translate-bot/internal/domain/ports/adapter"
	"slack-translate-bot/internal/infra/metrics"
)

var _ adapter.TextGenerator = (*instrumentedAI)(nil)

type instrumentedAI struct {
	inner adapter.TextGenerator
}

// NewInstrumentedAI records latency and failure kinds for every call.
func NewInstrumentedAI(inner adapter.TextGenerator) adapter.TextGenerator {
	return &instrumentedAI{inner: inner}
}

func (i *instrumentedAI) Provider() string { return i.inner.Provider() }
func (i *instrumentedAI) Model() string    { return i.inner.Model() }

func (i *instrumentedAI) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := i.inner.Generate(ctx, prompt)
	metrics.ObserveAICall(i.inner.Provider(), i.inner.Model(), time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		kind := "unknown"
		var genErr *adapter.GenerationError
		if errors.As(err, &genErr) {
			kind = string(genErr.Kind)
		}
		metrics.IncAIFailure(i.inner.Provider(), kind)
	}
	return text, err
}
