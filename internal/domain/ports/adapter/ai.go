package adapter

import (
	"context"
	"fmt"
)

// FailureKind classifies why a generation call produced no text.
type FailureKind string

const (
	FailureNetwork      FailureKind = "network"
	FailureAPI          FailureKind = "api"
	FailureDecode       FailureKind = "decode"
	FailureMissingField FailureKind = "missing_field"
)

// GenerationError is returned by TextGenerator implementations.
// Raw carries the provider response body when one was received.
type GenerationError struct {
	Kind FailureKind
	Raw  string
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed (%s)", e.Kind)
	}
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TextGenerator is the port for the generative-text API.
type TextGenerator interface {
	// Generate sends a single user prompt and returns the first candidate's text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Provider and Model identify the backend for logs and metrics.
	Provider() string
	Model() string
}
