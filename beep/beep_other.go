//go:build !linux

package beep

import (
	"encoding/binary"
	"sync"

	"github.com/gen2brain/malgo"

	"murmur/log"
)

func playSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		log.Warnf("playback init error: %v", err)
		return
	}
	defer func() {
		mctx.Uninit()
		mctx.Free()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = 1
	cfg.SampleRate = sampleRate

	var mu sync.Mutex
	pos := 0
	done := make(chan struct{})
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			mu.Lock()
			defer mu.Unlock()
			for i := uint32(0); i < frameCount; i++ {
				var s int16
				if pos < len(samples) {
					s = samples[pos]
					pos++
				}
				binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
			}
			if pos >= len(samples) {
				select {
				case done <- struct{}{}:
				default:
				}
			}
		},
	}

	dev, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		log.Warnf("playback device error: %v", err)
		return
	}
	defer dev.Uninit()
	if err := dev.Start(); err != nil {
		log.Warnf("playback start error: %v", err)
		return
	}
	<-done
	dev.Stop()
}
