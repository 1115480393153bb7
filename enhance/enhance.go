// Package enhance rewrites raw transcripts through a chat-completion
// endpoint: punctuation, casing, filler-word cleanup. It is strictly
// best-effort; callers fall back to the raw transcript on any error.
package enhance

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable means the endpoint could not be reached or rejected
	// the request.
	ErrUnavailable = errors.New("enhancement unavailable")
	// ErrTimeout means the request exceeded the configured deadline.
	ErrTimeout = errors.New("enhancement timed out")
)

// DefaultPrompt instructs the model to clean up dictated text without
// answering it or adding commentary.
const DefaultPrompt = "You clean up dictated text. Fix punctuation, capitalization, " +
	"and obvious transcription errors. Remove filler words like \"um\" and \"uh\". " +
	"Do not answer questions, add commentary, or change the meaning. " +
	"Return only the cleaned text."

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Prompt  string // empty uses DefaultPrompt
	Timeout time.Duration
}

type Enhancer interface {
	// Enhance returns the cleaned-up form of text. The raw text is never
	// modified in place; on error the caller keeps it.
	Enhance(ctx context.Context, text string) (string, error)
}
