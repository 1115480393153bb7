package hotkey

import "sync"

// Gesture identifies which shortcut produced a signal.
type Gesture string

const (
	GestureHold   Gesture = "hold"
	GestureToggle Gesture = "toggle"
)

// Signal is one user intent: start or stop, attributed to a gesture.
type Signal struct {
	Gesture Gesture
	Stop    bool
}

// Listener merges the hold and toggle shortcuts into a single stream of
// Signals. Hold maps keydown to start and keyup to stop; toggle latches,
// alternating start and stop on successive presses. Toggle keyups are
// ignored. Either hotkey may be nil when that shortcut is unconfigured.
type Listener struct {
	hold    Hotkey
	toggle  Hotkey
	signals chan Signal
	stop    chan struct{}
	once    sync.Once
}

func NewListener(hold, toggle Hotkey) *Listener {
	return &Listener{
		hold:    hold,
		toggle:  toggle,
		signals: make(chan Signal, 4),
		stop:    make(chan struct{}),
	}
}

func (l *Listener) Start() error {
	if l.hold != nil {
		if err := l.hold.Register(); err != nil {
			return err
		}
	}
	if l.toggle != nil {
		if err := l.toggle.Register(); err != nil {
			if l.hold != nil {
				l.hold.Unregister()
			}
			return err
		}
	}
	go l.run()
	return nil
}

func (l *Listener) Signals() <-chan Signal {
	return l.signals
}

func (l *Listener) Close() {
	l.once.Do(func() {
		close(l.stop)
		if l.hold != nil {
			l.hold.Unregister()
		}
		if l.toggle != nil {
			l.toggle.Unregister()
		}
	})
}

func (l *Listener) run() {
	// nil channels never fire, so an unconfigured shortcut just goes quiet
	var holdDown, holdUp, togDown, togUp <-chan struct{}
	if l.hold != nil {
		holdDown, holdUp = l.hold.Keydown(), l.hold.Keyup()
	}
	if l.toggle != nil {
		togDown, togUp = l.toggle.Keydown(), l.toggle.Keyup()
	}

	var latched bool
	for {
		select {
		case <-l.stop:
			return
		case <-holdDown:
			l.emit(Signal{Gesture: GestureHold})
		case <-holdUp:
			l.emit(Signal{Gesture: GestureHold, Stop: true})
		case <-togUp:
			// latch state only changes on press
		case <-togDown:
			if latched {
				latched = false
				l.emit(Signal{Gesture: GestureToggle, Stop: true})
			} else {
				latched = true
				l.emit(Signal{Gesture: GestureToggle})
			}
		}
	}
}

func (l *Listener) emit(s Signal) {
	select {
	case l.signals <- s:
	case <-l.stop:
	}
}
