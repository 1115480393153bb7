package insert

import "sync"

// Fake records inserted text; tests assert on exactly-once delivery.
type Fake struct {
	Err error

	mu       sync.Mutex
	inserted []string
}

func (f *Fake) Insert(text string) error {
	f.mu.Lock()
	f.inserted = append(f.inserted, text)
	f.mu.Unlock()
	return f.Err
}

func (f *Fake) Inserted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.inserted))
	copy(out, f.inserted)
	return out
}
