package encoder

import (
	"github.com/womat/debug"

	"rotenc/pkg/debounce"
	"rotenc/pkg/port"
)

// Edge is the edge triggered decoder.
// Every debounced level change of contact B is one detent, the level of
// contact A at that moment gives the direction.
type Edge struct {
	accumulator
	config Config
	reader port.Reader
	gate   *debounce.Gate

	firstPoll  bool
	previousB  port.StateType
	debouncing bool
}

// NewEdge creates an edge triggered decoder. Contact B is debounced with c.BounceTime
// measured by clock; a nil clock uses the system clock.
// It returns ErrInvalidDetents if c.Detents is zero.
func NewEdge(c Config, r port.Reader, clock debounce.Clock) (*Edge, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	return &Edge{
		accumulator: newAccumulator(c),
		config:      c,
		reader:      r,
		gate:        debounce.New(c.PinB, c.BounceTime, r, clock),
		firstPoll:   true,
	}, nil
}

// Config returns the decoder configuration.
func (e *Edge) Config() Config {
	return e.config
}

// Poll checks contact B for a change and returns the direction once the change has settled.
// While the debounce window is running Poll returns Neutral immediately.
func (e *Edge) Poll() Direction {
	if e.firstPoll {
		b := e.reader.ReadPin(e.config.PinB)
		if b == port.Invalid {
			return Neutral
		}
		e.firstPoll = false
		e.previousB = b
		debug.DebugLog.Printf("encoder pin %d: rest level %v", e.config.PinB, b)
		return Neutral
	}

	if !e.debouncing {
		if b := e.reader.ReadPin(e.config.PinB); b == e.previousB || b == port.Invalid {
			return Neutral
		}
		e.debouncing = true
	}

	if e.gate.BeginOrContinue() != debounce.Finished {
		return Neutral
	}
	e.debouncing = false

	b := e.reader.ReadPin(e.config.PinB)
	a := e.reader.ReadPin(e.config.PinA)
	switch {
	case b == port.Invalid || a == port.Invalid:
		return Neutral
	case b == e.previousB:
		debug.TraceLog.Printf("encoder pin %d: bounce ignored", e.config.PinB)
		return Neutral
	}
	e.previousB = b

	d := Negative
	if a != b {
		d = Positive
	}

	e.add(d)
	return d
}
