//go:build linux
// +build linux

package raspberry

import (
	"fmt"
	"sync"

	"github.com/warthog618/gpio"

	"rotenc/pkg/port"
)

// RpiGPIO is the memory mapped GPIO of the Raspberry Pi (/dev/gpiomem).
type RpiGPIO struct {
	mu   sync.Mutex
	pins map[int]*RpiPin
}

// RpiPin is a pin of the memory mapped GPIO.
type RpiPin struct {
	gpioPin *gpio.Pin
	owner   *RpiGPIO
}

// OpenMem maps the GPIO memory range from /dev/gpiomem.
func OpenMem() (*RpiGPIO, error) {
	if err := gpio.Open(); err != nil {
		return nil, err
	}
	return &RpiGPIO{pins: map[int]*RpiPin{}}, nil
}

// Close unmaps GPIO memory.
func (c *RpiGPIO) Close() error {
	return gpio.Close()
}

// NewPin creates a new input pin.
// The pin number provided is the BCM GPIO number.
func (c *RpiGPIO) NewPin(p int, bias string) (Pin, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pins[p]; ok {
		return nil, fmt.Errorf("%w: %v", ErrPinUsed, p)
	}

	pin := &RpiPin{gpioPin: gpio.NewPin(p), owner: c}

	switch bias {
	case PullUp:
		pin.gpioPin.PullUp()
	case PullDown:
		pin.gpioPin.PullDown()
	case PullNone:
		pin.gpioPin.PullNone()
	default:
		return nil, ErrInvalidParam
	}
	pin.gpioPin.Input()

	c.pins[p] = pin
	return pin, nil
}

// Pin returns the pin number that this Pin represents.
func (p *RpiPin) Pin() int {
	return p.gpioPin.Pin()
}

// Read pin state (high/low).
func (p *RpiPin) Read() port.StateType {
	if p.gpioPin.Read() == gpio.High {
		return port.High
	}
	return port.Low
}

// Close releases the pin number for a new request.
func (p *RpiPin) Close() error {
	p.owner.mu.Lock()
	delete(p.owner.pins, p.Pin())
	p.owner.mu.Unlock()
	return nil
}
