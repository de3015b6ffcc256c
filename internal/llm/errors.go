package llm

import (
	"errors"
	"net/http"
)

var (
	ErrConfiguration        = errors.New("AI gateway API key is not configured")
	ErrRateLimited          = errors.New("gateway rate limit exceeded")
	ErrQuotaExceeded        = errors.New("gateway quota exhausted")
	ErrUpstreamFailure      = errors.New("gateway request failed")
	ErrNoStructuredResponse = errors.New("model returned no tool call")
	ErrValidation           = errors.New("invalid request body")
)

const (
	rateLimitedMessage = "Rate limit exceeded. Please try again later."
	quotaMessage       = "Payment required. Please add credits to your workspace."
)

// StatusCode maps an inference error to the HTTP status relayed to the caller.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing text for err. Upstream details never
// leave the server; those failures get the endpoint's fallback text.
func Message(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return rateLimitedMessage
	case errors.Is(err, ErrQuotaExceeded):
		return quotaMessage
	case errors.Is(err, ErrUpstreamFailure):
		return fallback
	case errors.Is(err, ErrConfiguration):
		return ErrConfiguration.Error()
	case errors.Is(err, ErrValidation):
		return ErrValidation.Error()
	default:
		return err.Error()
	}
}
