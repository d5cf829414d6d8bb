package ai

import (
	"context"
	"strings"

	"slack-translate-bot/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*NoopAIAdapter)(nil)

// NoopAIAdapter is for local/dev runs without an API key: it echoes the
// text that follows the blank line in the prompt.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) Provider() string { return "noop" }
func (a *NoopAIAdapter) Model() string    { return "noop" }

func (a *NoopAIAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &adapter.GenerationError{Kind: adapter.FailureNetwork, Err: err}
	}
	if i := strings.Index(prompt, "\n\n"); i >= 0 {
		return prompt[i+2:], nil
	}
	return prompt, nil
}
