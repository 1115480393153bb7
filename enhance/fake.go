package enhance

import (
	"context"
	"sync"
)

// Fake applies a fixed transform or returns a canned error.
type Fake struct {
	Transform func(string) string
	Err       error
	Delay     func(ctx context.Context) error // optional; simulates latency

	mu    sync.Mutex
	calls int
	last  string
}

func (f *Fake) Enhance(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.last = text
	f.mu.Unlock()
	if f.Delay != nil {
		if err := f.Delay(ctx); err != nil {
			return "", err
		}
	}
	if f.Err != nil {
		return "", f.Err
	}
	if f.Transform != nil {
		return f.Transform(text), nil
	}
	return text, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) LastInput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
