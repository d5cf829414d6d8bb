// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"google.golang.org/genai"

	"slack-translate-bot/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
// baseURL may be empty to use the public endpoint.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, timeout time.Duration) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, timeout: timeout}, nil
}

func (g *GeminiAdapter) Provider() string { return "gemini" }
func (g *GeminiAdapter) Model() string    { return g.model }

func (g *GeminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	// candidates[0].content.parts[0].text
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil &&
		len(resp.Candidates[0].Content.Parts) > 0 && resp.Candidates[0].Content.Parts[0] != nil {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			return t, nil
		}
	}
	raw, _ := json.Marshal(resp)
	return "", &adapter.GenerationError{
		Kind: adapter.FailureMissingField,
		Raw:  string(raw),
		Err:  errors.New("response has no candidates[0].content.parts[0].text"),
	}
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		raw, _ := json.Marshal(apiErr)
		return &adapter.GenerationError{Kind: adapter.FailureAPI, Raw: string(raw), Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		raw, _ := json.Marshal(apiErrPtr)
		return &adapter.GenerationError{Kind: adapter.FailureAPI, Raw: string(raw), Err: err}
	}
	return classifyTransportError(err)
}
