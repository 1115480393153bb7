// Package hotkey watches global keyboard shortcuts. Linux reads evdev
// directly so shortcuts work on Wayland; other platforms go through
// golang.design/x/hotkey.
package hotkey

import (
	"fmt"
	"strings"
)

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Chord is a parsed shortcut: one non-modifier key plus at least one
// modifier.
type Chord struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Super bool
	Key   string // normalized: "space", "t", "f9", ...
}

// ParseChord parses strings like "ctrl+shift+space". Modifier aliases:
// option/opt for alt, cmd/win/meta for super.
func ParseChord(s string) (Chord, error) {
	var c Chord
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "ctrl", "control":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt", "option", "opt":
			c.Alt = true
		case "super", "cmd", "win", "meta":
			c.Super = true
		case "":
			return Chord{}, fmt.Errorf("invalid shortcut %q", s)
		default:
			if i != len(parts)-1 {
				return Chord{}, fmt.Errorf("invalid shortcut %q: unknown modifier %q", s, p)
			}
			c.Key = p
		}
	}
	if c.Key == "" {
		return Chord{}, fmt.Errorf("invalid shortcut %q: missing key", s)
	}
	if !c.Ctrl && !c.Shift && !c.Alt && !c.Super {
		return Chord{}, fmt.Errorf("invalid shortcut %q: needs at least one modifier", s)
	}
	if !knownKey(c.Key) {
		return Chord{}, fmt.Errorf("invalid shortcut %q: unsupported key %q", s, c.Key)
	}
	return c, nil
}

func (c Chord) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Super {
		parts = append(parts, "super")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

func knownKey(key string) bool {
	if len(key) == 1 {
		b := key[0]
		return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
	}
	switch key {
	case "space", "enter", "tab", "escape":
		return true
	}
	if strings.HasPrefix(key, "f") {
		switch key {
		case "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12":
			return true
		}
	}
	return false
}
