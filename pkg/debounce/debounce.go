// Package debounce suppresses the bounce of a mechanical contact.
//
// A Gate never blocks: the caller polls BeginOrContinue on every loop
// iteration until it reports Finished.
package debounce

import (
	"time"

	"rotenc/pkg/port"
)

// Status is the state of a settle operation.
type Status int

const (
	// NotStarted indicates that no settle operation is in progress.
	NotStarted Status = iota
	// Ongoing indicates that the pin hasn't been stable for the whole window yet.
	Ongoing
	// Finished indicates that the pin level has been stable for the whole window.
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Ongoing:
		return "ongoing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Clock is the time source of a Gate.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Gate tracks the settle operation of one pin.
type Gate struct {
	pin    int
	window time.Duration
	reader port.Reader
	clock  Clock

	status Status
	// since is the time the pin was last seen changing.
	since time.Time
	// level is the pin level at since.
	level port.StateType
}

// New creates a Gate for pin. The pin is considered settled once its level
// didn't change for window.
// A nil clock uses the SystemClock.
func New(pin int, window time.Duration, reader port.Reader, clock Clock) *Gate {
	if clock == nil {
		clock = SystemClock{}
	}

	return &Gate{
		pin:    pin,
		window: window,
		reader: reader,
		clock:  clock,
		status: NotStarted,
	}
}

// Pin returns the monitored pin.
func (g *Gate) Pin() int {
	return g.pin
}

// Window returns the debounce window.
func (g *Gate) Window() time.Duration {
	return g.window
}

// Status returns the status of the current settle operation without advancing it.
func (g *Gate) Status() Status {
	return g.status
}

// BeginOrContinue starts a settle operation or checks the running one.
// Finished is reported exactly once, the next call starts a new settle operation.
// Every level change within the window (bounce) restarts the window.
func (g *Gate) BeginOrContinue() Status {
	now := g.clock.Now()
	level := g.reader.ReadPin(g.pin)

	switch g.status {
	case NotStarted:
		g.since = now
		g.level = level
		g.status = Ongoing
	case Ongoing:
		if level != g.level {
			g.since = now
			g.level = level
		}
	}

	if g.level != port.Invalid && now.Sub(g.since) >= g.window {
		// Finished is one-shot, the gate rearms immediately
		g.status = NotStarted
		return Finished
	}

	return g.status
}

// Reset aborts a running settle operation.
func (g *Gate) Reset() {
	g.status = NotStarted
}
