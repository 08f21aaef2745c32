// Package completion is the boundary to the LLM completion service.
// The translation core depends only on the Client interface; the
// Anthropic implementation lives behind it so tests can substitute a
// deterministic stub.
package completion

import (
	"context"
	"fmt"
)

// Client defines the interface for completion providers.
type Client interface {
	// Complete submits a system/user prompt pair and returns the raw
	// completion text, or a *Error describing the transport failure.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Kind classifies a transport failure from the completion service.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindRateLimited
	KindTimeout
	KindNetwork
	KindService
)

// Detail returns the short error-detail token recorded on a failed
// translation result.
func (k Kind) Detail() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Error is a typed completion-service failure. Status is the HTTP
// status code when one was received, zero otherwise.
type Error struct {
	Kind   Kind
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion %s (status %d): %s", e.Kind.Detail(), e.Status, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("completion %s: %v", e.Kind.Detail(), e.Err)
	}
	return fmt.Sprintf("completion %s: %s", e.Kind.Detail(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
