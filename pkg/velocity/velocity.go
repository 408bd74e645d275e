// Package velocity detects fast spinning of the encoder knob.
package velocity

import (
	"sync"
	"time"
)

// Tracker keeps the detents reported within a time window.
// It is safe for concurrent use.
type Tracker struct {
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	recent []detent
}

// detent records a single reported detent
type detent struct {
	timestamp time.Time
	direction int // +1 or -1
}

// New creates a tracker for the given window.
func New(window time.Duration) *Tracker {
	return &Tracker{
		window: window,
		now:    time.Now,
		recent: make([]detent, 0, 16),
	}
}

// Add records a detent in direction (+1/-1) and returns the count of detents
// in the same direction within the window, the new one included.
// A direction of zero isn't recorded and returns 0.
func (t *Tracker) Add(direction int) int {
	if direction == 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.window)

	// drop detents outside the window, reuse the underlying array
	filtered := t.recent[:0]
	for _, d := range t.recent {
		if d.timestamp.After(cutoff) {
			filtered = append(filtered, d)
		}
	}
	filtered = append(filtered, detent{timestamp: now, direction: direction})
	t.recent = filtered

	n := 0
	for _, d := range filtered {
		if d.direction == direction {
			n++
		}
	}
	return n
}
