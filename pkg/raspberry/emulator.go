package raspberry

import (
	"fmt"
	"sync"

	"rotenc/pkg/port"
)

// EmuGPIO emulates input pins, e.g. for development on non linux systems.
type EmuGPIO struct {
	mu   sync.Mutex
	pins map[int]*EmuPin
}

// EmuPin is an emulated input pin.
type EmuPin struct {
	pin   int
	mu    sync.Mutex
	level port.StateType
	owner *EmuGPIO
}

// OpenEmu creates an emulated GPIO.
func OpenEmu() *EmuGPIO {
	return &EmuGPIO{pins: map[int]*EmuPin{}}
}

// Close does nothing.
func (c *EmuGPIO) Close() error {
	return nil
}

// NewPin creates a new emulated pin.
// The idle level follows the bias: high for pullup, low otherwise.
func (c *EmuGPIO) NewPin(p int, bias string) (Pin, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pins[p]; ok {
		return nil, fmt.Errorf("%w: %v", ErrPinUsed, p)
	}

	pin := &EmuPin{pin: p, owner: c}
	switch bias {
	case PullUp:
		pin.level = port.High
	case PullDown, PullNone:
		pin.level = port.Low
	default:
		return nil, ErrInvalidParam
	}

	c.pins[p] = pin
	return pin, nil
}

// SetLevel sets the level of emulated pin p.
func (c *EmuGPIO) SetLevel(p int, level port.StateType) error {
	c.mu.Lock()
	pin, ok := c.pins[p]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: pin %v not requested", ErrInvalidParam, p)
	}

	pin.mu.Lock()
	pin.level = level
	pin.mu.Unlock()
	return nil
}

// Pin returns the pin number.
func (p *EmuPin) Pin() int {
	return p.pin
}

// Read returns the emulated level.
func (p *EmuPin) Read() port.StateType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Close releases the pin number for a new request.
func (p *EmuPin) Close() error {
	p.owner.mu.Lock()
	delete(p.owner.pins, p.pin)
	p.owner.mu.Unlock()
	return nil
}
