package dictation

import (
	"errors"

	"murmur/enhance"
	"murmur/transcriber"
)

// ErrorKind is a stable classification for surfacing failures to the
// user and the log without string-matching wrapped errors.
type ErrorKind string

const (
	ErrCaptureUnavailable     ErrorKind = "capture_unavailable"
	ErrModelUnavailable       ErrorKind = "model_unavailable"
	ErrTranscriptionFailed    ErrorKind = "transcription_failed"
	ErrEnhancementUnavailable ErrorKind = "enhancement_unavailable"
	ErrEnhancementTimeout     ErrorKind = "enhancement_timeout"
	ErrInsertionFailed        ErrorKind = "insertion_failed"
)

func classifyTranscription(err error) ErrorKind {
	if errors.Is(err, transcriber.ErrModelUnavailable) {
		return ErrModelUnavailable
	}
	return ErrTranscriptionFailed
}

func classifyEnhancement(err error) ErrorKind {
	if errors.Is(err, enhance.ErrTimeout) {
		return ErrEnhancementTimeout
	}
	return ErrEnhancementUnavailable
}
