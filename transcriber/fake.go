package transcriber

import (
	"context"
	"sync"
)

// Fake returns canned text or errors; tests inspect call counts and the
// last PCM buffer it saw.
type Fake struct {
	Text    string
	Err     error
	LoadErr error

	mu      sync.Mutex
	calls   int
	loaded  bool
	lastPCM []byte
}

func (f *Fake) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadErr != nil {
		return f.LoadErr
	}
	f.loaded = true
	return nil
}

func (f *Fake) Unload() {
	f.mu.Lock()
	f.loaded = false
	f.mu.Unlock()
}

func (f *Fake) Transcribe(_ context.Context, pcm []byte) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastPCM = pcm
	f.mu.Unlock()
	if f.LoadErr != nil {
		return "", f.LoadErr
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) LastPCM() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPCM
}
