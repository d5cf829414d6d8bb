package ai

import (
	"context"

	"slack-translate-bot/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.TextGenerator = (*limitedAI)(nil)

type limitedAI struct {
	inner adapter.TextGenerator
	sem   chan struct{}
}

// NewLimitedAI bounds the number of in-flight Generate calls process-wide.
func NewLimitedAI(inner adapter.TextGenerator, maxConcurrent int) adapter.TextGenerator {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) Provider() string { return l.inner.Provider() }
func (l *limitedAI) Model() string    { return l.inner.Model() }

func (l *limitedAI) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", &adapter.GenerationError{Kind: adapter.FailureNetwork, Err: ctx.Err()}
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, prompt)
}
