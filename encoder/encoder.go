// Package encoder turns captured PCM (16-bit little-endian) into the
// container formats the transcription backends accept: WAV for the local
// whisper.cpp runner, FLAC to shrink uploads to remote endpoints.
package encoder

import "encoding/binary"

const (
	BitsPerSample = 16
	blockSize     = 4096
)

// Format describes the PCM stream being encoded.
type Format struct {
	SampleRate uint32
	Channels   uint32
}

// Samples converts raw little-endian PCM bytes into int16 samples. A
// trailing odd byte is dropped.
func Samples(pcm []byte) []int16 {
	n := len(pcm) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return out
}

// Duration returns the length of the PCM buffer in seconds.
func Duration(pcm []byte, f Format) float64 {
	if f.SampleRate == 0 || f.Channels == 0 {
		return 0
	}
	frames := len(pcm) / 2 / int(f.Channels)
	return float64(frames) / float64(f.SampleRate)
}
