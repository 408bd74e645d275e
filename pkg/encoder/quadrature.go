package encoder

import (
	"github.com/womat/debug"

	"rotenc/pkg/port"
)

// step is the gray code position of both contacts relative to the rest level.
//  0 both at rest
//  1 A off rest, B at rest
//  2 both off rest
//  3 A at rest, B off rest
// 0→1→2→3→0 is one rotation direction, 0→3→2→1→0 the other one.
type step int

// transitionType is the result of a step change.
type transitionType int

const (
	// ignore is an impossible single transition (hold, bounce or a skipped step)
	ignore transitionType = iota
	increment
	decrement
)

// transitions maps (previous, current) steps to the direction accumulator change.
// Transitions into step 0 complete the cycle and aren't looked up.
var transitions = [4][4]transitionType{
	0: {1: increment, 3: decrement},
	1: {2: increment},
	2: {1: decrement, 3: increment},
	3: {2: decrement},
}

// classify maps the contact levels to a step.
func classify(a, b, rest port.StateType) step {
	switch aOff, bOff := a != rest, b != rest; {
	case !aOff && !bOff:
		return 0
	case aOff && !bOff:
		return 1
	case aOff && bOff:
		return 2
	default:
		return 3
	}
}

// Quadrature is the 4-step cycle decoder.
// A direction is reported once per full gray code cycle (one detent).
// The decoder resynchronises on its own whenever both contacts return to rest,
// so missed polls cost at most the current detent.
type Quadrature struct {
	accumulator
	config Config
	reader port.Reader

	// rest is the level of contact A taken at the first poll
	rest      port.StateType
	firstPoll bool

	previous step
	current  step
	// sum is the count of forward minus backward steps within the running cycle
	sum      int
	finished bool
}

// NewQuadrature creates a 4-step cycle decoder.
// It returns ErrInvalidDetents if c.Detents is zero.
func NewQuadrature(c Config, r port.Reader) (*Quadrature, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	return &Quadrature{
		accumulator: newAccumulator(c),
		config:      c,
		reader:      r,
		firstPoll:   true,
		// the rest position counts as a completed cycle
		finished: true,
	}, nil
}

// Config returns the decoder configuration.
func (q *Quadrature) Config() Config {
	return q.config
}

// Poll samples both contacts and advances the state machine.
// It returns Positive or Negative when a detent cycle completes, otherwise Neutral.
// The first poll only records the rest level.
func (q *Quadrature) Poll() Direction {
	a := q.reader.ReadPin(q.config.PinA)
	b := q.reader.ReadPin(q.config.PinB)
	if a == port.Invalid || b == port.Invalid {
		debug.TraceLog.Printf("encoder pin %d/%d: invalid sample dropped", q.config.PinA, q.config.PinB)
		return Neutral
	}

	if q.firstPoll {
		q.firstPoll = false
		q.rest = a
		debug.DebugLog.Printf("encoder pin %d/%d: rest level %v", q.config.PinA, q.config.PinB, a)
		return Neutral
	}

	q.current = classify(a, b, q.rest)
	defer func() { q.previous = q.current }()

	switch {
	case q.current != 0 && q.finished:
		// a new cycle has begun
		q.finished = false
	case q.current != 0:
		switch transitions[q.previous][q.current] {
		case increment:
			q.sum++
		case decrement:
			q.sum--
		default:
			if q.previous != q.current {
				debug.TraceLog.Printf("encoder pin %d/%d: ignore step %d→%d", q.config.PinA, q.config.PinB, q.previous, q.current)
			}
		}
	case !q.finished:
		return q.complete()
	}

	return Neutral
}

// complete closes the running cycle.
func (q *Quadrature) complete() Direction {
	d := Neutral
	switch {
	case q.sum > 0:
		d = Positive
	case q.sum < 0:
		d = Negative
	}

	q.finished = true
	q.sum = 0
	q.add(d)
	return d
}
