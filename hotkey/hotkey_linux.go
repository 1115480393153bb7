//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0

	keyLCtrl  = 29
	keyRCtrl  = 97
	keyLShift = 42
	keyRShift = 54
	keyLAlt   = 56
	keyRAlt   = 100
	keyLSuper = 125
	keyRSuper = 126
)

const inputEventSize = 24

// evdev key codes from linux/input-event-codes.h
var evdevKeys = map[string]uint16{
	"a": 30, "b": 48, "c": 46, "d": 32, "e": 18, "f": 33, "g": 34,
	"h": 35, "i": 23, "j": 36, "k": 37, "l": 38, "m": 50, "n": 49,
	"o": 24, "p": 25, "q": 16, "r": 19, "s": 31, "t": 20, "u": 22,
	"v": 47, "w": 17, "x": 45, "y": 21, "z": 44,
	"1": 2, "2": 3, "3": 4, "4": 5, "5": 6, "6": 7, "7": 8, "8": 9,
	"9": 10, "0": 11,
	"space": 57, "enter": 28, "tab": 15, "escape": 1,
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64,
	"f7": 65, "f8": 66, "f9": 67, "f10": 68, "f11": 87, "f12": 88,
}

type linuxHotkey struct {
	chord   Chord
	keyCode uint16
	keydown chan struct{}
	keyup   chan struct{}
	files   []*os.File
	stop    chan struct{}
	once    sync.Once
}

func New(chord Chord) (Hotkey, error) {
	code, ok := evdevKeys[chord.Key]
	if !ok {
		return nil, fmt.Errorf("no evdev code for key %q", chord.Key)
	}
	return &linuxHotkey{
		chord:   chord,
		keyCode: code,
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func (h *linuxHotkey) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	h.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f)
	}

	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	return nil
}

type modState struct {
	ctrl, shift, alt, super bool
}

func (m modState) matches(c Chord) bool {
	return m.ctrl == c.Ctrl && m.shift == c.Shift && m.alt == c.Alt && m.super == c.Super
}

func (h *linuxHotkey) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	var mods modState
	var chordHeld bool

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			pressed := evValue == keyPress
			released := evValue == keyRelease

			switch evCode {
			case keyLCtrl, keyRCtrl:
				mods.ctrl = pressed || (!released && mods.ctrl)
			case keyLShift, keyRShift:
				mods.shift = pressed || (!released && mods.shift)
			case keyLAlt, keyRAlt:
				mods.alt = pressed || (!released && mods.alt)
			case keyLSuper, keyRSuper:
				mods.super = pressed || (!released && mods.super)
			case h.keyCode:
				if pressed && !chordHeld && mods.matches(h.chord) {
					chordHeld = true
					select {
					case h.keydown <- struct{}{}:
					default:
					}
				} else if released && chordHeld {
					chordHeld = false
					select {
					case h.keyup <- struct{}{}:
					default:
					}
				}
			}
		}
	}
}

func (h *linuxHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *linuxHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *linuxHotkey) Keyup() <-chan struct{} {
	return h.keyup
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose reports whether keyboard devices are accessible at all.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
