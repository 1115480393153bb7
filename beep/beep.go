// Package beep plays short feedback tones for recording transitions.
// Playback failures are logged and swallowed; audio feedback is never
// worth interrupting dictation for.
package beep

import (
	"math"
	"sync"
)

const sampleRate = 44100

var (
	disabled bool

	startSamples []int16
	endSamples   []int16
	errorSamples []int16
	soundOnce    sync.Once
)

// Disable turns all tones off for this process.
func Disable() { disabled = true }

func initSounds() {
	// Start: high snappy tick. End: lower, slightly longer. Error: low
	// double-tick. Tails are padded so the sink buffer fills cleanly.
	startSamples = generateTone(1200, 0.2, 0.5, 60)
	endSamples = generateTone(900, 0.2, 0.5, 40)
	errorSamples = generateDoubleTone(350, 0.12, 0.6, 30)
}

func generateTone(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func generateDoubleTone(freq, duration, volume, decay float64) []int16 {
	one := generateTone(freq, duration, volume, decay)
	gap := make([]int16, sampleRate/20) // 50ms of silence between ticks
	out := make([]int16, 0, 2*len(one)+len(gap))
	out = append(out, one...)
	out = append(out, gap...)
	out = append(out, one...)
	return out
}

// PlayStart fires the recording-started tone asynchronously.
func PlayStart() {
	if disabled {
		return
	}
	soundOnce.Do(initSounds)
	go playSamples(startSamples)
}

// PlayEnd fires the recording-stopped tone asynchronously.
func PlayEnd() {
	if disabled {
		return
	}
	soundOnce.Do(initSounds)
	go playSamples(endSamples)
}

// PlayError fires the failure tone asynchronously.
func PlayError() {
	if disabled {
		return
	}
	soundOnce.Do(initSounds)
	go playSamples(errorSamples)
}
