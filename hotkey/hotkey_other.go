//go:build !linux

package hotkey

import (
	"fmt"

	xhk "golang.design/x/hotkey"
)

var xKeys = map[string]xhk.Key{
	"a": xhk.KeyA, "b": xhk.KeyB, "c": xhk.KeyC, "d": xhk.KeyD,
	"e": xhk.KeyE, "f": xhk.KeyF, "g": xhk.KeyG, "h": xhk.KeyH,
	"i": xhk.KeyI, "j": xhk.KeyJ, "k": xhk.KeyK, "l": xhk.KeyL,
	"m": xhk.KeyM, "n": xhk.KeyN, "o": xhk.KeyO, "p": xhk.KeyP,
	"q": xhk.KeyQ, "r": xhk.KeyR, "s": xhk.KeyS, "t": xhk.KeyT,
	"u": xhk.KeyU, "v": xhk.KeyV, "w": xhk.KeyW, "x": xhk.KeyX,
	"y": xhk.KeyY, "z": xhk.KeyZ,
	"1": xhk.Key1, "2": xhk.Key2, "3": xhk.Key3, "4": xhk.Key4,
	"5": xhk.Key5, "6": xhk.Key6, "7": xhk.Key7, "8": xhk.Key8,
	"9": xhk.Key9, "0": xhk.Key0,
	"space": xhk.KeySpace, "enter": xhk.KeyReturn, "tab": xhk.KeyTab,
	"escape": xhk.KeyEscape,
	"f1": xhk.KeyF1, "f2": xhk.KeyF2, "f3": xhk.KeyF3, "f4": xhk.KeyF4,
	"f5": xhk.KeyF5, "f6": xhk.KeyF6, "f7": xhk.KeyF7, "f8": xhk.KeyF8,
	"f9": xhk.KeyF9, "f10": xhk.KeyF10, "f11": xhk.KeyF11, "f12": xhk.KeyF12,
}

type xHotkey struct {
	hk      *xhk.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
}

func New(chord Chord) (Hotkey, error) {
	key, ok := xKeys[chord.Key]
	if !ok {
		return nil, fmt.Errorf("no key code for %q", chord.Key)
	}
	var mods []xhk.Modifier
	if chord.Ctrl {
		mods = append(mods, xhk.ModCtrl)
	}
	if chord.Shift {
		mods = append(mods, xhk.ModShift)
	}
	if chord.Alt {
		mods = append(mods, modAlt)
	}
	if chord.Super {
		mods = append(mods, modSuper)
	}
	return &xHotkey{
		hk:      xhk.New(mods, key),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func (h *xHotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return err
	}
	go func() {
		for {
			<-h.hk.Keydown()
			h.keydown <- struct{}{}
		}
	}()
	go func() {
		for {
			<-h.hk.Keyup()
			h.keyup <- struct{}{}
		}
	}()
	return nil
}

func (h *xHotkey) Unregister() {
	h.hk.Unregister()
}

func (h *xHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *xHotkey) Keyup() <-chan struct{} {
	return h.keyup
}

// Diagnose reports whether global shortcut registration is available.
func Diagnose() (string, error) {
	return "global shortcut support available", nil
}
