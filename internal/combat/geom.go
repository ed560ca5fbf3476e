package combat

import "math"

type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Len() float64    { return math.Hypot(a.X, a.Y) }
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Dist is the Euclidean distance between two points.
func (a Vec2) Dist(b Vec2) float64 { return b.Sub(a).Len() }

// AngleTo is the heading from a to b in radians.
func (a Vec2) AngleTo(b Vec2) float64 { return math.Atan2(b.Y-a.Y, b.X-a.X) }

// Clamp limits each axis independently to [-limit, limit].
func (a Vec2) Clamp(limit float64) Vec2 {
	return Vec2{clamp(a.X, -limit, limit), clamp(a.Y, -limit, limit)}
}

func (a Vec2) Finite() bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0)
}

// FromAngle returns the vector of length l pointing along angle.
func FromAngle(angle, l float64) Vec2 {
	return Vec2{math.Cos(angle) * l, math.Sin(angle) * l}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
