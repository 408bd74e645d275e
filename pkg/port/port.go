// Package port holds the definition of a physical input port
package port

// StateType is the logic level of an input pin.
type StateType int

const (
	// High indicates a logical 1.
	High StateType = 1
	// Low indicates a logical 0.
	Low StateType = 0
	// Invalid indicates an unknown or invalid state, e.g. the pin could not be read.
	Invalid StateType = -1
)

func (s StateType) String() string {
	switch s {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "invalid"
	}
}

// Reader samples the instantaneous level of a pin.
// ReadPin must not block. A Reader that can't read the pin returns Invalid.
type Reader interface {
	ReadPin(pin int) StateType
}

// ReaderFunc is an adapter to allow the use of ordinary functions as Reader.
type ReaderFunc func(pin int) StateType

// ReadPin calls f(pin).
func (f ReaderFunc) ReadPin(pin int) StateType {
	return f(pin)
}
