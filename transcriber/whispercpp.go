package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"murmur/encoder"
)

// whisperCpp shells out to the whisper.cpp CLI. The "model" here is the
// ggml weights file plus the binary that runs it; Load verifies both exist
// so the first utterance fails fast instead of mid-pipeline.
type whisperCpp struct {
	cfg Config

	mu        sync.Mutex
	loaded    bool
	binPath   string
	modelPath string
}

func newWhisperCpp(cfg Config) *whisperCpp {
	return &whisperCpp{cfg: cfg}
}

func (w *whisperCpp) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loaded {
		return nil
	}

	bin, err := exec.LookPath("whisper-cli")
	if err != nil {
		// older whisper.cpp installs ship the binary as "main"
		bin, err = exec.LookPath("whisper-cpp")
		if err != nil {
			return fmt.Errorf("%w: whisper-cli not found in PATH", ErrModelUnavailable)
		}
	}

	model := w.resolveModelPath()
	if _, err := os.Stat(model); err != nil {
		return fmt.Errorf("%w: model %s not found (profile %q)", ErrModelUnavailable, model, w.cfg.Profile)
	}

	w.binPath = bin
	w.modelPath = model
	w.loaded = true
	return nil
}

func (w *whisperCpp) Unload() {
	w.mu.Lock()
	w.loaded = false
	w.binPath = ""
	w.modelPath = ""
	w.mu.Unlock()
}

func (w *whisperCpp) resolveModelPath() string {
	dir := w.cfg.ModelDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, ".cache", "murmur", "models")
		}
	}
	return filepath.Join(dir, "ggml-"+w.cfg.Profile+".bin")
}

func (w *whisperCpp) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	if err := w.Load(); err != nil {
		return "", err
	}
	w.mu.Lock()
	bin, model := w.binPath, w.modelPath
	w.mu.Unlock()

	wav := encoder.WAV(pcm, encoder.Format{SampleRate: w.cfg.SampleRate, Channels: w.cfg.Channels})
	tmp, err := os.CreateTemp("", "murmur-*.wav")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(wav); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	tmp.Close()

	args := []string{"-m", model, "-f", tmp.Name(), "--no-prints", "--no-timestamps"}
	if w.cfg.Language != "" {
		args = append(args, "-l", w.cfg.Language)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrFailed, err, firstLine(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
