package encoder

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

var mono = Format{SampleRate: 16000, Channels: 1}

// sinePCM generates a 440Hz tone as 16-bit LE PCM.
func sinePCM(seconds float64, f Format) []byte {
	n := int(seconds * float64(f.SampleRate) * float64(f.Channels))
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		s := int16(math.Sin(2*math.Pi*440*float64(i)/float64(f.SampleRate)) * 16000)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func TestWAVHeader(t *testing.T) {
	pcm := sinePCM(0.25, mono)
	wav := WAV(pcm, mono)

	if len(wav) != WAVHeaderSize+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), WAVHeaderSize+len(pcm))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE magic")
	}
	if rate := binary.LittleEndian.Uint32(wav[24:]); rate != 16000 {
		t.Errorf("sample rate = %d", rate)
	}
	if size := binary.LittleEndian.Uint32(wav[40:]); int(size) != len(pcm) {
		t.Errorf("data size = %d, want %d", size, len(pcm))
	}
	if !bytes.Equal(wav[WAVHeaderSize:], pcm) {
		t.Error("payload mismatch")
	}
}

func TestFLACMagic(t *testing.T) {
	// Length deliberately not a multiple of the block size.
	pcm := sinePCM(0.3, mono)
	out, err := FLAC(pcm, mono)
	if err != nil {
		t.Fatalf("FLAC: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("fLaC")) {
		t.Error("missing fLaC magic")
	}
}

func TestFLACStereo(t *testing.T) {
	stereo := Format{SampleRate: 16000, Channels: 2}
	out, err := FLAC(sinePCM(0.1, stereo), stereo)
	if err != nil {
		t.Fatalf("FLAC stereo: %v", err)
	}
	if len(out) == 0 {
		t.Error("empty output")
	}
}

func TestFLACRejectsChannelCount(t *testing.T) {
	if _, err := FLAC(nil, Format{SampleRate: 16000, Channels: 3}); err == nil {
		t.Error("expected error for 3 channels")
	}
}

func TestDuration(t *testing.T) {
	pcm := sinePCM(2.0, mono)
	if got := Duration(pcm, mono); math.Abs(got-2.0) > 0.001 {
		t.Errorf("Duration = %v, want 2.0", got)
	}
	if got := Duration(nil, Format{}); got != 0 {
		t.Errorf("Duration of empty format = %v", got)
	}
}
