package combat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// constRand returns the same Float64 every draw and the midpoint for Intn,
// which makes spawn jitter predictable and health equal to base health.
type constRand struct{ f float64 }

func (r *constRand) Float64() float64 { return r.f }
func (r *constRand) Intn(n int) int   { return n / 2 }

func newFixedWorld(f float64, opts ...Option) *World {
	return NewWorld(append([]Option{WithRand(&constRand{f: f})}, opts...)...)
}

// place spawns a unit and then forces its exact position and state.
func place(t *testing.T, w *World, team Team, class Class, x, y float64, s State) Handle {
	t.Helper()
	h, err := w.Spawn(team, class, Vec2{X: x, Y: y})
	require.NoError(t, err)
	w.units[h].Pos = Vec2{X: x, Y: y}
	w.units[h].State = s
	return h
}

func unitOf(t *testing.T, w *World, h Handle) Unit {
	t.Helper()
	u, ok := w.Unit(h)
	require.True(t, ok)
	return u
}

// asleep keeps a unit out of the way for the length of a test.
func asleep() State { return Idle(1 << 20) }
