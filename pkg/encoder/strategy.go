package encoder

import (
	"fmt"

	"rotenc/pkg/debounce"
	"rotenc/pkg/port"
)

// Decoding strategies accepted by New.
const (
	StrategyQuadrature = "quadrature"
	StrategyEdge       = "edge"
)

// New creates the decoder of the named strategy.
// An empty strategy selects the quadrature decoder.
func New(strategy string, c Config, r port.Reader, clock debounce.Clock) (Detector, error) {
	switch strategy {
	case StrategyQuadrature, "":
		return NewQuadrature(c, r)
	case StrategyEdge:
		return NewEdge(c, r, clock)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidParam, strategy)
	}
}
