package combat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollision_ImpulsesAreOpposite(t *testing.T) {
	w := newFixedWorld(0)
	a := place(t, w, TeamRed, Hastati, 10, 10, asleep())
	b := place(t, w, TeamBlue, Hastati, 12, 11, asleep())

	va, vb := w.units[a].Vel, w.units[b].Vel
	w.collide(a)
	da := w.units[a].Vel.Sub(va)
	db := w.units[b].Vel.Sub(vb)

	require.NotZero(t, da.Len())
	assert.InDelta(t, -da.X, db.X, 1e-12)
	assert.InDelta(t, -da.Y, db.Y, 1e-12)

	// a is pushed away from b
	assert.Less(t, da.X, 0.0)
	assert.Less(t, da.Y, 0.0)
	assert.InDelta(t, 0.6*(6-math.Sqrt(5)), db.Len(), 1e-12)
}

func TestCollision_NoPushBeyondOverlap(t *testing.T) {
	w := newFixedWorld(0)
	a := place(t, w, TeamRed, Hastati, 10, 10, asleep())
	place(t, w, TeamBlue, Hastati, 14.5, 10, asleep())

	w.collide(a)
	assert.Equal(t, Vec2{}, w.units[a].Vel)
}

func TestCollision_CoincidentUnitsStayFinite(t *testing.T) {
	w := newFixedWorld(0)
	a := place(t, w, TeamRed, Hastati, 50, 50, asleep())
	b := place(t, w, TeamRed, Hastati, 50, 50, asleep())

	w.collide(a)
	assert.Equal(t, Vec2{}, w.units[a].Vel)
	assert.Equal(t, Vec2{}, w.units[b].Vel)

	for i := 0; i < 100; i++ {
		w.Tick()
	}
	assert.True(t, w.units[a].Pos.Finite())
	assert.True(t, w.units[b].Pos.Finite())
	assert.True(t, w.units[a].Vel.Finite())
}

func TestCollision_IgnoresDeadUnits(t *testing.T) {
	w := newFixedWorld(0)
	a := place(t, w, TeamRed, Hastati, 10, 10, asleep())
	place(t, w, TeamBlue, Hastati, 11, 10, Dead())

	w.collide(a)
	assert.Equal(t, Vec2{}, w.units[a].Vel)
}

func TestBounds_OutsideUnitGetsImpulse(t *testing.T) {
	w := newFixedWorld(0)
	p := w.Physics()
	left := place(t, w, TeamRed, Triarii, -5, 100, asleep())
	corner := place(t, w, TeamRed, Triarii, p.Width+3, p.Height+3, asleep())

	w.Tick()

	l := unitOf(t, w, left)
	assert.InDelta(t, p.BoundsImpulse*p.Drag, l.Vel.X, 1e-9)
	assert.Zero(t, l.Vel.Y)
	assert.InDelta(t, -5+p.MaxSpeed*0.7, l.Pos.X, 1e-9)

	c := unitOf(t, w, corner)
	assert.InDelta(t, -p.BoundsImpulse*p.Drag, c.Vel.X, 1e-9)
	assert.InDelta(t, -p.BoundsImpulse*p.Drag, c.Vel.Y, 1e-9)
	assert.Less(t, c.Pos.X, p.Width+3)
}

func TestBounds_UnitAtEdgeDoesNotDiverge(t *testing.T) {
	w := newFixedWorld(0)
	p := w.Physics()
	edge := place(t, w, TeamRed, Hastati, p.Width, p.Height, Idle(0))
	over := place(t, w, TeamRed, Velites, p.Width+0.5, p.Height/2, Idle(0))

	for i := 0; i < 5000; i++ {
		w.Tick()
		e := w.units[edge]
		require.True(t, e.Pos.Finite())
		assert.InDelta(t, p.Width, e.Pos.X, 1e-9)
		assert.InDelta(t, p.Height, e.Pos.Y, 1e-9)

		o := w.units[over]
		require.True(t, o.Pos.Finite())
		require.LessOrEqual(t, o.Pos.X, p.Width+0.5)
		require.Greater(t, o.Pos.X, p.Width-400)
	}
}

func TestIntegrate_ClampsSpeedAndScalesByClass(t *testing.T) {
	w := newFixedWorld(0)
	h := place(t, w, TeamRed, Velites, 100, 100, asleep())
	w.units[h].Vel = Vec2{X: 5, Y: -0.5}

	w.Tick()

	u := unitOf(t, w, h)
	assert.InDelta(t, 100+1.3*1.5, u.Pos.X, 1e-9)
	assert.InDelta(t, 100-0.5*1.5, u.Pos.Y, 1e-9)
	assert.InDelta(t, 5*0.97, u.Vel.X, 1e-9)
}
