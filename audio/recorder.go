package audio

import (
	"fmt"
	"sync"
	"time"
)

// Recorder starts capture attempts. One capture may be in flight at a time;
// the caller (the dictation orchestrator) enforces that by construction.
type Recorder interface {
	Begin() (Capture, error)
}

// Capture is one in-flight recording. The sample buffer belongs to the
// capture until End hands it to the caller; after End or Cancel the capture
// must not be used again.
type Capture interface {
	End() (pcm []byte, elapsed time.Duration)
	Cancel()
}

type deviceRecorder struct {
	dev CaptureDevice
}

// NewRecorder wraps a capture device in the begin/end/cancel contract.
func NewRecorder(dev CaptureDevice) Recorder {
	return &deviceRecorder{dev: dev}
}

func (r *deviceRecorder) Begin() (Capture, error) {
	c := &deviceCapture{dev: r.dev, start: time.Now()}
	r.dev.SetCallback(c.accumulate)
	if err := r.dev.Start(); err != nil {
		r.dev.ClearCallback()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return c, nil
}

type deviceCapture struct {
	dev   CaptureDevice
	start time.Time

	mu       sync.Mutex
	buf      []byte
	finished bool
}

func (c *deviceCapture) accumulate(data []byte, _ uint32) {
	c.mu.Lock()
	if !c.finished {
		c.buf = append(c.buf, data...)
	}
	c.mu.Unlock()
}

func (c *deviceCapture) End() ([]byte, time.Duration) {
	elapsed := time.Since(c.start)
	c.dev.Stop()
	c.dev.ClearCallback()

	c.mu.Lock()
	c.finished = true
	buf := c.buf
	c.buf = nil
	c.mu.Unlock()
	return buf, elapsed
}

func (c *deviceCapture) Cancel() {
	c.dev.Stop()
	c.dev.ClearCallback()

	c.mu.Lock()
	c.finished = true
	c.buf = nil
	c.mu.Unlock()
}
