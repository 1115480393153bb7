// Package insert delivers final text into the focused application. The
// only reliable cross-application path is the clipboard: copy the text,
// synthesize a paste chord, then restore whatever the user had copied.
package insert

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// ErrFailed wraps every insertion error so callers can classify without
// caring which step broke.
var ErrFailed = errors.New("text insertion failed")

type Inserter interface {
	// Insert places text into the focused application exactly once.
	Insert(text string) error
}

// Paster inserts via clipboard + paste keystroke. The previous clipboard
// contents are restored after a short delay so the paste has landed first.
type Paster struct {
	read         func() (string, error)
	write        func(string) error
	paste        func() error
	restoreDelay time.Duration

	wg sync.WaitGroup
}

func NewPaster() *Paster {
	return &Paster{
		read:         clipboard.ReadAll,
		write:        clipboard.WriteAll,
		paste:        pasteChord,
		restoreDelay: 600 * time.Millisecond,
	}
}

func (p *Paster) Insert(text string) error {
	prev, prevErr := p.read()
	if err := p.write(text); err != nil {
		return fmt.Errorf("%w: copying to clipboard: %v", ErrFailed, err)
	}
	if err := p.paste(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if prevErr == nil && prev != text {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			time.Sleep(p.restoreDelay)
			p.write(prev)
		}()
	}
	return nil
}

// Flush waits for a pending clipboard restore. Called on shutdown so the
// user's clipboard is not left holding the transcript.
func (p *Paster) Flush() {
	p.wg.Wait()
}

// Probe reports whether paste synthesis can work on this system without
// actually pasting anything. Used by the doctor checks.
func Probe() error {
	if err := initPaste(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
	return nil
}
