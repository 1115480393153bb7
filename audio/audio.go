// Package audio captures microphone PCM. The platform backends (PulseAudio
// on Linux, miniaudio elsewhere) push chunks through a callback; Recorder
// layers the begin/end/cancel buffer ownership on top.
package audio

import "errors"

// ErrUnavailable is returned when the capture device cannot be opened,
// typically because permission was denied or the device is busy.
var ErrUnavailable = errors.New("capture device unavailable")

// DataCallback receives interleaved 16-bit little-endian PCM.
type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	DeviceName() string
}
