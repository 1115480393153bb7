package audio

import (
	"sync"
	"time"
)

// FakeContext lists a fixed set of devices and hands out FakeCaptures that
// replay a preset PCM buffer. Used by tests and the doctor dry-run.
type FakeContext struct {
	DeviceList []DeviceInfo
	PCM        []byte
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) { return f.DeviceList, nil }
func (f *FakeContext) Close()                         {}

func (f *FakeContext) NewCapture(device *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	name := "fake default"
	if device != nil {
		name = device.Name
	}
	return &FakeCapture{pcm: f.PCM, name: name}, nil
}

// FakeCapture feeds its whole PCM buffer to the callback on Start.
type FakeCapture struct {
	pcm  []byte
	name string

	mu      sync.Mutex
	cb      DataCallback
	started int
	stopped int
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return f.name }

func (f *FakeCapture) Start() error {
	f.mu.Lock()
	f.started++
	cb := f.cb
	f.mu.Unlock()
	if cb != nil && len(f.pcm) > 0 {
		chunk := make([]byte, len(f.pcm))
		copy(chunk, f.pcm)
		cb(chunk, uint32(len(chunk)/2))
	}
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	f.stopped++
	f.mu.Unlock()
}

func (f *FakeCapture) Close() {}

// StartCount reports how many times Start ran; tests use it to assert the
// orchestrator never double-starts a capture.
func (f *FakeCapture) StartCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// FakeRecorder implements Recorder directly, bypassing the device layer.
type FakeRecorder struct {
	PCM      []byte
	Elapsed  time.Duration
	BeginErr error

	mu        sync.Mutex
	begins    int
	cancelled bool
}

func (f *FakeRecorder) Begin() (Capture, error) {
	f.mu.Lock()
	f.begins++
	f.mu.Unlock()
	if f.BeginErr != nil {
		return nil, f.BeginErr
	}
	return &fakeRecorderCapture{rec: f}, nil
}

func (f *FakeRecorder) Begins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.begins
}

func (f *FakeRecorder) Cancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

type fakeRecorderCapture struct {
	rec *FakeRecorder
}

func (c *fakeRecorderCapture) End() ([]byte, time.Duration) {
	return c.rec.PCM, c.rec.Elapsed
}

func (c *fakeRecorderCapture) Cancel() {
	c.rec.mu.Lock()
	c.rec.cancelled = true
	c.rec.mu.Unlock()
}
