package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitWritesToDir(t *testing.T) {
	SetDir(t.TempDir())
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	Info("hello")
	StateChange("recording", "hold")
	Failure("insertion_failed", errors.New("no target"))
	Diagnostic("enhancement_timeout", errors.New("deadline"))
	Utterance(2*time.Second, 300*time.Millisecond, 0, 40*time.Millisecond, 11)
	TranscriptText("hello world")

	data, err := os.ReadFile(filepath.Join(Dir(), "murmur.log"))
	if err != nil {
		t.Fatalf("reading diagnostic log: %v", err)
	}
	for _, want := range []string{"hello", "state", "session_error", "diagnostic", "utterance"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("diagnostic log missing %q", want)
		}
	}
	if strings.Contains(string(data), "hello world") {
		t.Error("dictated text leaked into the diagnostic log")
	}

	text, err := os.ReadFile(filepath.Join(Dir(), "transcripts.log"))
	if err != nil {
		t.Fatalf("reading transcript log: %v", err)
	}
	if !strings.Contains(string(text), "hello world") {
		t.Error("transcript log missing inserted text")
	}
}

func TestUninitializedIsNoop(t *testing.T) {
	Close()
	Info("dropped")
	TranscriptText("dropped")
	Warnf("dropped %d", 1)
}

func TestResolveDirFlagWins(t *testing.T) {
	t.Setenv("MURMUR_LOG_PATH", "/env/path")
	got, err := ResolveDir("/flag/path")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/flag/path" {
		t.Errorf("ResolveDir = %q, want /flag/path", got)
	}

	got, err = ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/env/path" {
		t.Errorf("ResolveDir = %q, want /env/path", got)
	}
}
