package ai

import (
	"context"
	"fmt"

	"slack-translate-bot/internal/config"
	"slack-translate-bot/internal/domain/ports/adapter"
)

// NewFromConfig builds the configured provider wrapped with metrics and the concurrency limit.
func NewFromConfig(ctx context.Context, cfg config.AIConfig) (adapter.TextGenerator, error) {
	var (
		gen adapter.TextGenerator
		err error
	)
	switch cfg.Provider {
	case "gemini":
		gen, err = NewGeminiAdapter(ctx, cfg.GeminiKey, cfg.GeminiURL, cfg.DefaultModel, cfg.Timeout)
	case "openai":
		gen, err = NewOpenAIAdapter(cfg.OpenAIKey, cfg.DefaultModel, cfg.OpenAIBaseURL, cfg.Timeout)
	case "noop":
		gen = NewNoopAIAdapter()
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s adapter: %w", cfg.Provider, err)
	}
	return NewLimitedAI(NewInstrumentedAI(gen), cfg.ConcurrentLimit), nil
}
