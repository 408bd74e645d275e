// Package raspberry provides the gpio input pins of the encoder contacts.
//
// Three backends exist:
//  * gpiod:   gpio character device (/dev/gpiochipN), linux only
//  * gpiomem: memory mapped gpio registers (/dev/gpiomem), linux only
//  * emu:     emulated pins, levels are set by the caller
package raspberry

import (
	"fmt"
	"sync"

	"rotenc/pkg/port"
)

// Backend drivers accepted by Open.
const (
	DriverGpiod   = "gpiod"
	DriverGpiomem = "gpiomem"
	DriverEmu     = "emu"
)

// Pin bias accepted by NewPin.
const (
	PullUp   = "pullup"
	PullDown = "pulldown"
	PullNone = "none"
)

var (
	ErrInvalidParam = fmt.Errorf("invalid parameters")
	ErrPinUsed      = fmt.Errorf("pin already used")
)

// GPIO is implemented by each backend.
type GPIO interface {
	// NewPin requests pin as input with given bias (pullup|pulldown|none).
	NewPin(pin int, bias string) (Pin, error)
	// Close releases the backend. Pins must be closed before.
	Close() error
}

// Pin is a single requested input pin.
type Pin interface {
	// Pin returns the pin number (BCM numbering).
	Pin() int
	// Read returns the current level or port.Invalid if the pin can't be read.
	Read() port.StateType
	Close() error
}

// Bank is a set of requested pins. It implements port.Reader.
type Bank struct {
	mu   sync.Mutex
	pins map[int]Pin
}

// NewBank requests all pins from g with the same bias.
// On error the pins already requested are released.
func NewBank(g GPIO, bias string, pins ...int) (*Bank, error) {
	b := &Bank{pins: map[int]Pin{}}

	for _, p := range pins {
		if _, ok := b.pins[p]; ok {
			_ = b.Close()
			return nil, fmt.Errorf("%w: %v", ErrPinUsed, p)
		}

		pin, err := g.NewPin(p, bias)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("can't request pin %v: %w", p, err)
		}
		b.pins[p] = pin
	}

	return b, nil
}

// ReadPin returns the level of pin. Pins not part of the bank are Invalid.
func (b *Bank) ReadPin(pin int) port.StateType {
	b.mu.Lock()
	p, ok := b.pins[pin]
	b.mu.Unlock()

	if !ok {
		return port.Invalid
	}
	return p.Read()
}

// Close releases all pins of the bank.
func (b *Bank) Close() (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for n, p := range b.pins {
		if e := p.Close(); e != nil && err == nil {
			err = e
		}
		delete(b.pins, n)
	}
	return
}
