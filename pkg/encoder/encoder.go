// Package encoder decodes the A/B contacts of an incremental rotary encoder
// into a rotation direction and an accumulated angular position.
//
// The decoders are designed for a periodically polled control loop:
// Poll must be called at a rate fast enough to see every quadrature step,
// it never blocks and never fails. Decoders are not safe for concurrent use.
package encoder

import (
	"fmt"
	"time"
)

var (
	ErrInvalidDetents = fmt.Errorf("number of detents must be greater than zero")
	ErrInvalidParam   = fmt.Errorf("invalid parameters")
)

const (
	DefaultBounceTime = 70 * time.Millisecond
	DefaultDetents    = 24
	DefaultMaxAngle   = 360
)

// Direction is the rotation direction detected by a poll.
type Direction int

const (
	Negative Direction = -1
	Neutral  Direction = 0
	Positive Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Negative:
		return "negative"
	case Neutral:
		return "neutral"
	case Positive:
		return "positive"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Unit selects the unit of GetPosition.
type Unit int

const (
	Detents Unit = iota
	Degrees
)

func (u Unit) String() string {
	switch u {
	case Detents:
		return "detents"
	case Degrees:
		return "degrees"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Detector is implemented by both decoding strategies.
type Detector interface {
	// Poll samples the contacts and returns the direction of a completed detent.
	Poll() Direction
	// GetPosition returns the angular position in the requested unit.
	GetPosition(Unit) float64
}

// Config holds the encoder parameters. It is immutable after the decoder is created.
type Config struct {
	// PinA is the input pin of contact A.
	PinA int
	// PinB is the input pin of contact B.
	PinB int
	// BounceTime is the debounce window of the edge triggered decoder.
	BounceTime time.Duration
	// Detents is the number of detents within MaxAngle, must not be zero.
	Detents uint
	// MaxAngle is the rotation angle (degrees) of Detents detents.
	MaxAngle uint
}

// NewConfig returns a Config with default values for the given pins.
func NewConfig(pinA, pinB int) Config {
	return Config{
		PinA:       pinA,
		PinB:       pinB,
		BounceTime: DefaultBounceTime,
		Detents:    DefaultDetents,
		MaxAngle:   DefaultMaxAngle,
	}
}

// validate checks the constructor contract.
func (c Config) validate() error {
	if c.Detents == 0 {
		return ErrInvalidDetents
	}
	if c.PinA == c.PinB {
		return fmt.Errorf("%w: contact A and B share pin %d", ErrInvalidParam, c.PinA)
	}
	return nil
}

// ScaleFactor returns the angle of one detent (degrees).
// The scale factor is undefined if Detents is zero.
func (c Config) ScaleFactor() float64 {
	return float64(c.MaxAngle) / float64(c.Detents)
}

// accumulator counts completed detents.
// It is unbounded, a position beyond MaxAngle isn't wrapped.
type accumulator struct {
	detents int64
	scale   float64
}

func newAccumulator(c Config) accumulator {
	return accumulator{scale: c.ScaleFactor()}
}

// add applies the direction of a completed detent.
func (a *accumulator) add(d Direction) {
	switch d {
	case Positive:
		a.detents++
	case Negative:
		a.detents--
	}
}

// GetPosition returns the current position. It has no side effects.
func (a *accumulator) GetPosition(u Unit) float64 {
	if u == Degrees {
		return float64(a.detents) * a.scale
	}
	return float64(a.detents)
}

// Detents returns the raw signed detent count.
func (a *accumulator) Detents() int64 {
	return a.detents
}
