package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"murmur/audio"
	"murmur/beep"
	"murmur/config"
	"murmur/dictation"
	"murmur/doctor"
	"murmur/enhance"
	"murmur/hotkey"
	"murmur/insert"
	"murmur/log"
	"murmur/transcriber"
)

var version = "dev"

var shutdownOnce sync.Once

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func run() {
	configFlag := flag.String("config", "", "Config file path (default: murmur.json, then ~/.config/murmur/config.json)")
	modelFlag := flag.String("model", "", "Override model profile (e.g., base.en, small)")
	langFlag := flag.String("lang", "", "Override language code (e.g., en, es, fr)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	setupFlag := flag.Bool("setup", false, "Select microphone device interactively")
	enhanceFlag := flag.String("enhance", "", "Override enhancement: on or off")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	beepFlag := flag.Bool("beep", true, "Play feedback tones")
	writeConfigFlag := flag.String("writeconfig", "", "Write the default config to the given path and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	if *writeConfigFlag != "" {
		if err := config.WriteDefault(*writeConfigFlag); err != nil {
			fatalf("writing config: %v", err)
		}
		fmt.Printf("Wrote default config to %s\n", *writeConfigFlag)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatalf("%v", err)
	}
	if *modelFlag != "" {
		cfg.ModelProfile = *modelFlag
	}
	if *langFlag != "" {
		cfg.Language = *langFlag
	}
	if *deviceFlag != "" {
		cfg.DeviceHint = *deviceFlag
	}
	switch *enhanceFlag {
	case "":
	case "on":
		cfg.Enhancement.Enabled = true
	case "off":
		cfg.Enhancement.Enabled = false
	default:
		fatalf("unknown -enhance value %q (use on or off)", *enhanceFlag)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("invalid config: %v", err)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg))
	}

	if !*beepFlag {
		beep.Disable()
	}

	logFlagPath := *logPathFlag
	if logFlagPath == "" {
		logFlagPath = cfg.LogPath
	}
	logDir, err := log.ResolveDir(logFlagPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to resolve log directory: %v\n", err)
	} else {
		log.SetDir(logDir)
		if err := log.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
		}
	}

	actx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fatalf("initializing audio: %v", err)
	}
	defer actx.Close()

	var device *audio.DeviceInfo
	if *setupFlag {
		device, err = audio.SelectDevice(actx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v\nFalling back to default device\n", err)
			device = nil
		}
	} else {
		device, err = audio.MatchDevice(actx, cfg.DeviceHint)
		if err != nil {
			log.Warnf("device match failed: %v", err)
			fmt.Printf("Warning: %v\nFalling back to default device\n", err)
			device = nil
		}
	}

	captureDevice, err := actx.NewCapture(device, audio.CaptureConfig{
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
	})
	if err != nil {
		log.Errorf("capture device init error: %v", err)
		fatalf("initializing capture device: %v", err)
	}
	defer captureDevice.Close()
	recorder := audio.NewRecorder(captureDevice)

	tr := transcriber.New(transcriber.Config{
		Profile:    cfg.ModelProfile,
		Endpoint:   cfg.Endpoint,
		APIKey:     os.Getenv("MURMUR_API_KEY"),
		Language:   cfg.Language,
		ModelDir:   cfg.ModelDir,
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
	})
	// warm the model in the background; the first utterance reports the
	// error if this fails
	go func() {
		if err := tr.Load(); err != nil {
			log.Warnf("model warm-up failed: %v", err)
		}
	}()
	defer tr.Unload()

	var enhancer enhance.Enhancer
	if cfg.Enhancement.Enabled {
		enhancer = enhance.NewOpenAI(enhance.Config{
			BaseURL: cfg.Enhancement.BaseURL,
			APIKey:  cfg.Enhancement.APIKey(),
			Model:   cfg.Enhancement.Model,
			Prompt:  cfg.Enhancement.Prompt,
			Timeout: cfg.EnhancementTimeout(),
		})
	}

	paster := insert.NewPaster()
	if err := insert.Probe(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	orch := dictation.New(dictation.Options{
		Recorder:    recorder,
		Transcriber: tr,
		Enhancer:    enhancer,
		Inserter:    paster,
		Notifier:    uiNotifier{},
		MinDuration: cfg.MinDuration(),
	})

	holdHK, togHK, err := buildHotkeys(cfg.Shortcuts)
	if err != nil {
		fatalf("%v", err)
	}
	listener := hotkey.NewListener(holdHK, togHK)
	if err := listener.Start(); err != nil {
		log.Errorf("shortcut register error: %v", err)
		fatalf("registering shortcuts: %v", err)
	}
	defer listener.Close()

	if *tuiFlag {
		startTUI(cfg, captureDevice.DeviceName())
	}

	log.ServiceStart(cfg.ModelProfile, cfg.Language, captureDevice.DeviceName(), cfg.Enhancement.Enabled)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	shutdown := func() {
		shutdownOnce.Do(func() {
			listener.Close()
			orch.Shutdown()
			paster.Flush()
			stopTUI()
			log.Close()
		})
	}
	defer shutdown()

	for {
		select {
		case s := <-listener.Signals():
			trigger := dictation.TriggerHold
			if s.Gesture == hotkey.GestureToggle {
				trigger = dictation.TriggerToggle
			}
			if s.Stop {
				orch.Stop(trigger)
			} else {
				orch.Start(trigger)
			}
		case <-sigChan:
			shutdown()
			return
		case <-tuiDone:
			shutdown()
			return
		}
	}
}

// buildHotkeys turns the configured chord strings into platform hotkeys.
// An empty chord leaves that shortcut nil (disabled).
func buildHotkeys(s config.Shortcuts) (hold, toggle hotkey.Hotkey, err error) {
	if s.Hold != "" {
		chord, err := hotkey.ParseChord(s.Hold)
		if err != nil {
			return nil, nil, fmt.Errorf("hold shortcut: %w", err)
		}
		if hold, err = hotkey.New(chord); err != nil {
			return nil, nil, fmt.Errorf("hold shortcut: %w", err)
		}
	}
	if s.Toggle != "" {
		chord, err := hotkey.ParseChord(s.Toggle)
		if err != nil {
			return nil, nil, fmt.Errorf("toggle shortcut: %w", err)
		}
		if toggle, err = hotkey.New(chord); err != nil {
			return nil, nil, fmt.Errorf("toggle shortcut: %w", err)
		}
	}
	return hold, toggle, nil
}

// uiNotifier bridges orchestrator events to the TUI and the feedback
// tones.
type uiNotifier struct{}

func (uiNotifier) OnState(s dictation.State, detail string) {
	switch s {
	case dictation.StateRecording:
		beep.PlayStart()
	case dictation.StateProcessing:
		if detail == dictation.DetailTranscribing {
			beep.PlayEnd()
		}
	}
	tuiSend(stateMsg{state: s, detail: detail})
}

func (uiNotifier) OnResult(text string) {
	tuiSend(resultMsg{text: text})
}

func (uiNotifier) OnError(kind dictation.ErrorKind, err error) {
	beep.PlayError()
	tuiSend(errorMsg{kind: kind, text: err.Error()})
}

func (uiNotifier) OnDiagnostic(kind dictation.ErrorKind, err error) {
	tuiSend(diagMsg{kind: kind, text: err.Error()})
}
