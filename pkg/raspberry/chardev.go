//go:build linux
// +build linux

package raspberry

import (
	"github.com/warthog618/gpiod"
	"github.com/womat/debug"

	"rotenc/pkg/port"
)

// Chip represents a single GPIO chip that controls a set of lines.
type Chip struct {
	gpiodChip *gpiod.Chip
}

// Line represents a single requested input line.
type Line struct {
	gpiodLine *gpiod.Line
	offset    int
}

// OpenChip opens a GPIO character device, e.g. gpiochip0.
func OpenChip(name string) (*Chip, error) {
	c, err := gpiod.NewChip(name)
	if err != nil {
		return nil, err
	}
	return &Chip{gpiodChip: c}, nil
}

// NewPin requests control of a single line on a chip as input.
// If granted, control is maintained until the Line is closed.
func (c *Chip) NewPin(offset int, bias string) (Pin, error) {
	var err error
	line := &Line{offset: offset}

	switch bias {
	case PullUp:
		line.gpiodLine, err = c.gpiodChip.RequestLine(offset, gpiod.AsInput, gpiod.WithPullUp)
	case PullDown:
		line.gpiodLine, err = c.gpiodChip.RequestLine(offset, gpiod.AsInput, gpiod.WithPullDown)
	case PullNone:
		line.gpiodLine, err = c.gpiodChip.RequestLine(offset, gpiod.AsInput)
	default:
		return nil, ErrInvalidParam
	}

	if err != nil {
		return nil, err
	}
	return line, nil
}

// Close releases the Chip.
//
// It does not release any lines which may be requested - they must be closed
// independently.
func (c *Chip) Close() error {
	return c.gpiodChip.Close()
}

// Pin returns the line offset.
func (l *Line) Pin() int {
	return l.offset
}

// Read returns the current line value.
func (l *Line) Read() port.StateType {
	v, err := l.gpiodLine.Value()
	if err != nil {
		debug.ErrorLog.Printf("line %v: %v", l.offset, err)
		return port.Invalid
	}

	switch v {
	case 0:
		return port.Low
	case 1:
		return port.High
	default:
		debug.ErrorLog.Printf("line %v: invalid value %v", l.offset, v)
		return port.Invalid
	}
}

// Close releases all resources held by the requested line.
func (l *Line) Close() error {
	return l.gpiodLine.Close()
}
