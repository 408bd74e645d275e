package encoder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotenc/pkg/port"
)

// levels of contact A and B for each step, rest level low
var levels = [4][2]port.StateType{
	{port.Low, port.Low},
	{port.High, port.Low},
	{port.High, port.High},
	{port.Low, port.High},
}

func newTestQuadrature(t *testing.T) (*Quadrature, pins) {
	t.Helper()
	p := pins{}
	p.set(port.Low, port.Low)
	q, err := NewQuadrature(NewConfig(pinA, pinB), p)
	require.NoError(t, err)
	require.Equal(t, Neutral, q.Poll(), "first poll")
	return q, p
}

// feed polls once per step and returns the reported directions
func feed(q *Quadrature, p pins, steps ...int) []Direction {
	var r []Direction
	for _, s := range steps {
		p.set(levels[s][0], levels[s][1])
		r = append(r, q.Poll())
	}
	return r
}

func TestClassify(t *testing.T) {
	for rest, off := range map[port.StateType]port.StateType{port.Low: port.High, port.High: port.Low} {
		assert.Equal(t, step(0), classify(rest, rest, rest))
		assert.Equal(t, step(1), classify(off, rest, rest))
		assert.Equal(t, step(2), classify(off, off, rest))
		assert.Equal(t, step(3), classify(rest, off, rest))
	}
}

func TestQuadraturePoll(t *testing.T) {
	tests := []struct {
		name     string
		steps    []int
		want     []Direction
		position float64
	}{
		{"forward", []int{1, 2, 3, 0}, []Direction{Neutral, Neutral, Neutral, Positive}, 1},
		{"reverse", []int{3, 2, 1, 0}, []Direction{Neutral, Neutral, Neutral, Negative}, -1},
		{"reversal within cycle", []int{1, 2, 1, 0}, []Direction{Neutral, Neutral, Neutral, Neutral}, 0},
		{"bounce on A", []int{1, 0, 1, 0}, []Direction{Neutral, Neutral, Neutral, Neutral}, 0},
		{"hold", []int{0, 1, 1, 2, 2, 3, 3, 0, 0}, []Direction{Neutral, Neutral, Neutral, Neutral, Neutral, Neutral, Neutral, Positive, Neutral}, 1},
		{"forward twice", []int{1, 2, 3, 0, 1, 2, 3, 0}, []Direction{Neutral, Neutral, Neutral, Positive, Neutral, Neutral, Neutral, Positive}, 2},
		{"forward then reverse", []int{1, 2, 3, 0, 3, 2, 1, 0}, []Direction{Neutral, Neutral, Neutral, Positive, Neutral, Neutral, Neutral, Negative}, 0},
		{"jitter inside cycle", []int{1, 2, 3, 2, 3, 0}, []Direction{Neutral, Neutral, Neutral, Neutral, Neutral, Positive}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, p := newTestQuadrature(t)
			assert.Equal(t, tt.want, feed(q, p, tt.steps...))
			assert.Equal(t, tt.position, q.GetPosition(Detents))
		})
	}
}

func TestQuadratureFirstPoll(t *testing.T) {
	for _, l := range levels {
		p := pins{}
		p.set(l[0], l[1])
		q, err := NewQuadrature(NewConfig(pinA, pinB), p)
		require.NoError(t, err)
		assert.Equal(t, Neutral, q.Poll())
		assert.Equal(t, 0.0, q.GetPosition(Detents))
	}
}

func TestQuadratureRestHigh(t *testing.T) {
	p := pins{}
	p.set(port.High, port.High)
	q, err := NewQuadrature(NewConfig(pinA, pinB), p)
	require.NoError(t, err)
	require.Equal(t, Neutral, q.Poll())

	var got []Direction
	for _, l := range [][2]port.StateType{{port.Low, port.High}, {port.Low, port.Low}, {port.High, port.Low}, {port.High, port.High}} {
		p.set(l[0], l[1])
		got = append(got, q.Poll())
	}
	assert.Equal(t, []Direction{Neutral, Neutral, Neutral, Positive}, got)
}

func TestQuadratureSkippedStep(t *testing.T) {
	q, p := newTestQuadrature(t)

	// 1→3 skips step 2
	assert.Equal(t, []Direction{Neutral, Neutral, Neutral}, feed(q, p, 1, 3, 0))
	assert.Equal(t, 0.0, q.GetPosition(Detents))

	assert.Equal(t, []Direction{Neutral, Neutral, Neutral, Positive}, feed(q, p, 1, 2, 3, 0))
	assert.Equal(t, []Direction{Neutral, Neutral, Neutral, Negative}, feed(q, p, 3, 2, 1, 0))
	assert.Equal(t, 0.0, q.GetPosition(Detents))
}

func TestQuadratureInvalidSample(t *testing.T) {
	q, p := newTestQuadrature(t)
	feed(q, p, 1, 2)

	delete(p, pinB)
	assert.Equal(t, Neutral, q.Poll())

	assert.Equal(t, []Direction{Neutral, Positive}, feed(q, p, 3, 0))
}

func TestQuadratureDegrees(t *testing.T) {
	q, p := newTestQuadrature(t)
	for i := 0; i < 3; i++ {
		feed(q, p, 1, 2, 3, 0)
	}
	assert.Equal(t, 3.0, q.GetPosition(Detents))
	assert.Equal(t, 45.0, q.GetPosition(Degrees))
	assert.Equal(t, int64(3), q.Detents())
}

// TestQuadratureRandomWalk checks that the reported directions always sum up to the position.
func TestQuadratureRandomWalk(t *testing.T) {
	q, p := newTestQuadrature(t)
	rnd := rand.New(rand.NewSource(42))

	s, sum := 0, 0
	for i := 0; i < 10000; i++ {
		s = (s + rnd.Intn(3) + 3) % 4 // -1, 0 or +1
		p.set(levels[s][0], levels[s][1])
		sum += int(q.Poll())

		pos := q.GetPosition(Detents)
		require.Equal(t, float64(sum), pos)
		require.Equal(t, pos*q.Config().ScaleFactor(), q.GetPosition(Degrees))
	}
}

func TestQuadratureSpinning(t *testing.T) {
	q, p := newTestQuadrature(t)
	for i := 0; i < 30; i++ {
		feed(q, p, 3, 2, 1, 0)
	}
	assert.Equal(t, -30.0, q.GetPosition(Detents))
	assert.Equal(t, -450.0, q.GetPosition(Degrees))
}
