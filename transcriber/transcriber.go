// Package transcriber maps captured PCM to text. Two backends: a local
// whisper.cpp runner and an OpenAI-compatible transcription endpoint.
// Model loading is lazy and cached inside the backend; callers only see
// Transcribe succeed or fail.
package transcriber

import (
	"context"
	"errors"
)

var (
	// ErrModelUnavailable means the model could not be loaded at all
	// (missing model file, missing binary, unreachable endpoint).
	ErrModelUnavailable = errors.New("transcription model unavailable")
	// ErrFailed means the model loaded but inference failed.
	ErrFailed = errors.New("transcription failed")
)

// Config selects and parameterizes a backend.
type Config struct {
	Profile    string // whisper model profile, e.g. "base.en", "small"
	Endpoint   string // non-empty selects the remote backend
	APIKey     string
	Language   string
	ModelDir   string // override for the local model cache directory
	SampleRate uint32
	Channels   uint32
}

type Transcriber interface {
	// Load makes the model ready. Idempotent; cached until Unload.
	Load() error
	// Unload releases the model so a different profile can be loaded.
	Unload()
	// Transcribe blocks until the given PCM buffer is turned into text.
	Transcribe(ctx context.Context, pcm []byte) (string, error)
}

// New picks the backend: remote when an endpoint is configured, local
// whisper.cpp otherwise.
func New(cfg Config) Transcriber {
	if cfg.Endpoint != "" {
		return newServer(cfg)
	}
	return newWhisperCpp(cfg)
}
