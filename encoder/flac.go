package encoder

import (
	"bytes"
	"fmt"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// FLAC losslessly compresses raw PCM. Typical speech shrinks to roughly
// half the raw size, which matters for upload latency on slow links.
func FLAC(pcm []byte, f Format) ([]byte, error) {
	if f.Channels < 1 || f.Channels > 2 {
		return nil, fmt.Errorf("flac: unsupported channel count %d", f.Channels)
	}

	var buf bytes.Buffer
	info := &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  blockSize,
		SampleRate:    f.SampleRate,
		NChannels:     uint8(f.Channels),
		BitsPerSample: BitsPerSample,
	}
	enc, err := flac.NewEncoder(&buf, info)
	if err != nil {
		return nil, fmt.Errorf("flac: creating encoder: %w", err)
	}
	enc.EnablePredictionAnalysis(true)

	channels := frame.ChannelsMono
	if f.Channels == 2 {
		channels = frame.ChannelsLR
	}

	samples := Samples(pcm)
	frameSamples := blockSize * int(f.Channels)
	for start := 0; start < len(samples); start += frameSamples {
		end := min(start+frameSamples, len(samples))
		if err := writeFrame(enc, samples[start:end], f, channels); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("flac: closing encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFrame(enc *flac.Encoder, samples []int16, f Format, channels frame.Channels) error {
	nch := int(f.Channels)
	perChannel := len(samples) / nch

	subframes := make([]*frame.Subframe, nch)
	for ch := 0; ch < nch; ch++ {
		sub := &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   make([]int32, perChannel),
			NSamples:  perChannel,
		}
		// Interleaved PCM: sample i of channel ch sits at i*nch+ch.
		for i := 0; i < perChannel; i++ {
			sub.Samples[i] = int32(samples[i*nch+ch])
		}
		subframes[ch] = sub
	}

	fr := &frame.Frame{
		Header: frame.Header{
			BlockSize:     uint16(perChannel),
			SampleRate:    f.SampleRate,
			Channels:      channels,
			BitsPerSample: BitsPerSample,
		},
		Subframes: subframes,
	}
	if err := enc.WriteFrame(fr); err != nil {
		return fmt.Errorf("flac: writing frame: %w", err)
	}
	return nil
}
