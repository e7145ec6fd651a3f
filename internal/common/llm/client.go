// Package llm talks to text-completion services. Replies are returned as raw text; callers own
// any interpretation of them.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrRequestFailed covers transport errors, non-2xx replies and malformed reply bodies.
	ErrRequestFailed = errors.New("LLM_REQUEST_FAILED")
	// ErrEmptyCompletion is returned when the service answers without a choice or candidate.
	// A choice with empty text is a valid reply.
	ErrEmptyCompletion = errors.New("LLM_EMPTY_COMPLETION")
)

// Request is one single-turn completion: a system instruction plus one user message.
type Request struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	System      string  `json:"system"`
	User        string  `json:"user"`
}

// Completer sends a Request and returns the reply text. Implementations make exactly one
// attempt per call and must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
}

// Logger is the part of logger.Logger the completion cache reports through: cache hits at
// debug level and Redis failures as warnings.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}
