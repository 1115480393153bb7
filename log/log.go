// Package log writes diagnostic and transcript logs to per-OS log
// directories. Logging is optional: until Init succeeds every call is a
// no-op, so callers never guard their log statements.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diag     zerolog.Logger
	diagFile *os.File
	textFile *os.File
	mu       sync.Mutex
	ready    bool
	pid      int
	dir      string
)

// ResolveDir picks the log directory: flag value, then MURMUR_LOG_PATH,
// then the platform default. Relative paths are anchored at the working
// directory.
func ResolveDir(flagPath string) (string, error) {
	candidate := flagPath
	if candidate == "" {
		candidate = os.Getenv("MURMUR_LOG_PATH")
	}
	if candidate == "" {
		return defaultDir()
	}
	if filepath.IsAbs(candidate) {
		return candidate, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, candidate), nil
}

func SetDir(d string) { dir = d }

func Dir() string { return dir }

// Init opens the diagnostic and transcript log files for appending.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	pid = os.Getpid()

	df, err := os.OpenFile(filepath.Join(dir, "murmur.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	tf, err := os.OpenFile(filepath.Join(dir, "transcripts.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		df.Close()
		return err
	}
	diagFile, textFile = df, tf

	writer := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diag = zerolog.New(writer).With().Timestamp().Int("pid", pid).Logger()
	ready = true
	return nil
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if textFile != nil {
		textFile.Close()
		textFile = nil
	}
	ready = false
}

func Info(msg string) {
	if ready {
		diag.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if ready {
		diag.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if ready {
		diag.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if ready {
		diag.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// ServiceStart records the configuration the service came up with.
func ServiceStart(profile, language, device string, enhance bool) {
	if !ready {
		return
	}
	diag.Info().
		Str("profile", profile).
		Str("language", language).
		Str("device", device).
		Bool("enhance", enhance).
		Msg("service_start")
}

// StateChange records an orchestrator transition.
func StateChange(state, detail string) {
	if !ready {
		return
	}
	ev := diag.Info().Str("state", state)
	if detail != "" {
		ev = ev.Str("detail", detail)
	}
	ev.Msg("state")
}

// Failure records a terminal session error by taxonomy kind.
func Failure(kind string, err error) {
	if !ready {
		return
	}
	diag.Error().Str("kind", kind).Err(err).Msg("session_error")
}

// Diagnostic records a non-fatal condition (enhancement fallback etc).
func Diagnostic(kind string, err error) {
	if !ready {
		return
	}
	diag.Warn().Str("kind", kind).Err(err).Msg("diagnostic")
}

// Utterance records per-utterance timing once insertion completed.
func Utterance(recorded time.Duration, transcribe, enhance, insert time.Duration, chars int) {
	if !ready {
		return
	}
	diag.Info().
		Float64("audio_s", recorded.Seconds()).
		Int64("transcribe_ms", transcribe.Milliseconds()).
		Int64("enhance_ms", enhance.Milliseconds()).
		Int64("insert_ms", insert.Milliseconds()).
		Int("chars", chars).
		Msg("utterance")
}

// TranscriptText appends the inserted text to the transcript log. Kept out
// of the diagnostic log so the latter can be shared without leaking
// dictated content.
func TranscriptText(text string) {
	if !ready {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if textFile == nil {
		return
	}
	fmt.Fprintf(textFile, "%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
}
