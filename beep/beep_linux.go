//go:build linux

package beep

import (
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"murmur/log"
)

func playSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	c, err := pulse.NewClient()
	if err != nil {
		log.Warnf("pulse playback error: %v", err)
		return
	}
	defer c.Close()

	// duplicate mono samples into interleaved stereo for the sink
	stereo := make([]int16, len(samples)*2)
	for i, s := range samples {
		stereo[i*2] = s
		stereo[i*2+1] = s
	}

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(stereo) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, stereo[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		log.Warnf("pulse playback error: %v", err)
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}
