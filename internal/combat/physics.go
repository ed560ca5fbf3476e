package combat

import "math"

// Physics holds the arena and movement constants shared by every unit.
type Physics struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	BoundsImpulse float64 `json:"bounds_impulse"`
	MaxSpeed      float64 `json:"max_speed"`
	Drag          float64 `json:"drag"`
	UnitSize      float64 `json:"unit_size"`
	MinSeparation float64 `json:"min_separation"`
	PushPower     float64 `json:"push_power"`
	Accel         float64 `json:"accel"`
	EngageRange   float64 `json:"engage_range"`
	CombatDamping float64 `json:"combat_damping"`
	Epsilon       float64 `json:"epsilon"`
}

const unitSize = 4.0

func DefaultPhysics() Physics {
	return Physics{
		Width:         1280,
		Height:        720,
		BoundsImpulse: 10,
		MaxSpeed:      1.3,
		Drag:          0.97,
		UnitSize:      unitSize,
		MinSeparation: 6,
		PushPower:     0.6,
		Accel:         0.1,
		EngageRange:   unitSize * 2,
		CombatDamping: 0.7,
		Epsilon:       1e-9,
	}
}

// boundsImpulse pushes u back towards the arena on every axis it has left.
// The correction is a velocity kick, not a clamp, so units bounce off walls.
func (p *Physics) boundsImpulse(u *Unit) {
	if u.Pos.X > p.Width {
		u.Vel.X -= p.BoundsImpulse
	}
	if u.Pos.X < 0 {
		u.Vel.X += p.BoundsImpulse
	}
	if u.Pos.Y > p.Height {
		u.Vel.Y -= p.BoundsImpulse
	}
	if u.Pos.Y < 0 {
		u.Vel.Y += p.BoundsImpulse
	}
}

func (p *Physics) integrate(u *Unit, speedMul float64) {
	u.Pos = u.Pos.Add(u.Vel.Clamp(p.MaxSpeed).Scale(speedMul))
}

// push returns the impulse o receives from u; u receives the negation.
// Pairs closer than Epsilon have no defined direction and are not pushed.
func (p *Physics) push(u, o *Unit) (Vec2, bool) {
	d := u.Pos.Dist(o.Pos)
	if d < p.Epsilon || math.IsNaN(d) {
		return Vec2{}, false
	}
	mag := p.PushPower * math.Max(0, p.MinSeparation-d)
	return FromAngle(u.Pos.AngleTo(o.Pos), mag), true
}

func (p *Physics) drag(u *Unit) {
	u.Vel = u.Vel.Scale(p.Drag)
}
