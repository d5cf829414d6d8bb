package ai

import (
	"context"
	"errors"
	"net"
	"net/url"

	"slack-translate-bot/internal/domain/ports/adapter"
)

// classifyTransportError maps errors that are not provider API errors to
// network (could not talk to the provider) or decode (talked, could not parse).
func classifyTransportError(err error) error {
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		errors.As(err, &urlErr), errors.As(err, &netErr):
		return &adapter.GenerationError{Kind: adapter.FailureNetwork, Err: err}
	default:
		return &adapter.GenerationError{Kind: adapter.FailureDecode, Err: err}
	}
}
