// Package doctor runs system diagnostics: can we capture audio, load the
// model, synthesize a paste, and watch the shortcuts. Each check prints
// PASS or FAIL; the exit code reflects the worst result.
package doctor

import (
	"fmt"
	"time"

	"murmur/audio"
	"murmur/config"
	"murmur/hotkey"
	"murmur/insert"
	"murmur/transcriber"
)

// Run executes all checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg config.Config) int {
	fmt.Println("murmur doctor - system diagnostics")
	fmt.Println("==================================")

	allPass := true
	for i, c := range checks {
		fmt.Println()
		fmt.Printf("[%d/%d] %s\n", i+1, len(checks), c.name)
		if msg, err := c.probe(cfg); err != nil {
			fmt.Printf("  FAIL: %v\n", err)
			if c.hint != "" {
				fmt.Printf("  Fix with: %s\n", c.hint)
			}
			allPass = false
		} else {
			fmt.Printf("  PASS: %s\n", msg)
		}
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

var checks = []struct {
	name  string
	probe func(config.Config) (string, error)
	hint  string
}{
	{name: "Shortcut configuration", probe: checkShortcuts},
	{name: "Keyboard access", probe: checkKeyboard},
	{name: "Microphone capture", probe: checkMicrophone},
	{name: "Transcription model", probe: checkModel},
	{name: "Text insertion", probe: checkInsertion, hint: insertHint},
	{name: "Enhancement", probe: checkEnhancement},
}

func checkShortcuts(cfg config.Config) (string, error) {
	hold, err := hotkey.ParseChord(cfg.Shortcuts.Hold)
	if err != nil {
		return "", err
	}
	tog, err := hotkey.ParseChord(cfg.Shortcuts.Toggle)
	if err != nil {
		return "", err
	}
	if hold == tog {
		return "", fmt.Errorf("hold and toggle shortcuts are both %s", hold)
	}
	return fmt.Sprintf("hold %s, toggle %s", hold, tog), nil
}

func checkKeyboard(config.Config) (string, error) {
	return hotkey.Diagnose()
}

func checkMicrophone(cfg config.Config) (string, error) {
	ctx, err := audio.NewContext()
	if err != nil {
		return "", fmt.Errorf("cannot connect to audio: %w", err)
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		return "", fmt.Errorf("cannot list devices: %w", err)
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("no capture devices found")
	}

	device, err := audio.MatchDevice(ctx, cfg.DeviceHint)
	if err != nil {
		return "", err
	}

	dev, err := ctx.NewCapture(device, audio.CaptureConfig{
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
	})
	if err != nil {
		return "", fmt.Errorf("cannot open capture device: %w", err)
	}
	defer dev.Close()

	got := make(chan struct{}, 1)
	dev.SetCallback(func(data []byte, frameCount uint32) {
		if len(data) > 0 {
			select {
			case got <- struct{}{}:
			default:
			}
		}
	})
	if err := dev.Start(); err != nil {
		return "", fmt.Errorf("cannot start capture: %w", err)
	}
	defer dev.Stop()
	defer dev.ClearCallback()

	select {
	case <-got:
		return fmt.Sprintf("captured audio from %s (%d device(s) total)", dev.DeviceName(), len(devices)), nil
	case <-time.After(3 * time.Second):
		return "", fmt.Errorf("device %s produced no audio in 3s", dev.DeviceName())
	}
}

func checkModel(cfg config.Config) (string, error) {
	tr := transcriber.New(transcriber.Config{
		Profile:    cfg.ModelProfile,
		Endpoint:   cfg.Endpoint,
		Language:   cfg.Language,
		ModelDir:   cfg.ModelDir,
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
	})
	if err := tr.Load(); err != nil {
		return "", err
	}
	tr.Unload()
	if cfg.Endpoint != "" {
		return fmt.Sprintf("endpoint %s reachable", cfg.Endpoint), nil
	}
	return fmt.Sprintf("model %q ready", cfg.ModelProfile), nil
}

func checkInsertion(config.Config) (string, error) {
	if err := insert.Probe(); err != nil {
		return "", err
	}
	return "paste synthesis available", nil
}

func checkEnhancement(cfg config.Config) (string, error) {
	if !cfg.Enhancement.Enabled {
		return "disabled (skipped)", nil
	}
	if cfg.Enhancement.BaseURL == "" {
		return "", fmt.Errorf("enhancement enabled but base_url is empty")
	}
	if cfg.Enhancement.APIKeyEnvVar != "" && cfg.Enhancement.APIKey() == "" {
		return "", fmt.Errorf("environment variable %s is not set", cfg.Enhancement.APIKeyEnvVar)
	}
	return fmt.Sprintf("configured for %s", cfg.Enhancement.BaseURL), nil
}
