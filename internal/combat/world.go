package combat

import (
	"fmt"

	"legionsim/internal/util"
)

// World owns every unit and advances them one tick at a time. It is not safe
// for concurrent use; callers that render from another goroutine take a
// Snapshot under their own lock.
type World struct {
	units   []Unit
	tick    uint64
	rng     Rand
	classes ClassTable
	phys    Physics
	emit    func(Event)

	engagements int
	resolutions int
}

type Option func(*World)

func WithPhysics(p Physics) Option { return func(w *World) { w.phys = p } }

func WithClasses(t ClassTable) Option { return func(w *World) { w.classes = t } }

func WithRand(r Rand) Option { return func(w *World) { w.rng = r } }

// WithSeed seeds the world's generator; 0 leaves it free-running.
func WithSeed(seed int64) Option { return func(w *World) { w.rng = util.New(seed) } }

// WithEmitter receives every event the world produces, in order.
func WithEmitter(emit func(Event)) Option { return func(w *World) { w.emit = emit } }

func NewWorld(opts ...Option) *World {
	w := &World{
		classes: DefaultClassTable(),
		phys:    DefaultPhysics(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = util.New(0)
	}
	return w
}

// Spawn appends a unit and returns its handle. The position gets a small
// random jitter; level, health and the initial idle wait follow the class.
func (w *World) Spawn(team Team, class Class, pos Vec2) (Handle, error) {
	if !team.Valid() {
		return noHandle, fmt.Errorf("%w: %d", ErrUnknownTeam, int(team))
	}
	if !class.Valid() {
		return noHandle, fmt.Errorf("%w: %d", ErrUnknownClass, int(class))
	}
	if !pos.Finite() {
		return noHandle, fmt.Errorf("%w: (%v, %v)", ErrInvalidPosition, pos.X, pos.Y)
	}

	stats := w.classes.Of(class)
	h := Handle(len(w.units))
	jitter := Vec2{w.rng.Float64() * 2, w.rng.Float64() * 2}
	level := w.rng.Float64()*2 + 1
	health := stats.BaseHealth + w.rng.Intn(10) - 5
	if health < 1 {
		health = 1
	}

	w.units = append(w.units, Unit{
		Handle: h,
		Team:   team,
		Class:  class,
		Pos:    pos.Add(jitter),
		Health: health,
		Level:  level,
		State:  Idle(stats.IdleWait),
	})
	if w.emit != nil {
		u := &w.units[h]
		w.emit(Event{T: w.tick, Type: "Spawn", Payload: map[string]any{
			"id": int(h), "team": team.String(), "class": class.String(),
			"x": u.Pos.X, "y": u.Pos.Y, "hp": u.Health, "level": u.Level,
		}})
	}
	return h, nil
}

// Tick advances the simulation by one step. Units are processed in handle
// order and each sees the effects of the units before it in the same tick.
func (w *World) Tick() {
	w.tick++
	for i := range w.units {
		if w.units[i].Dead() {
			continue
		}
		h := Handle(i)
		w.move(h)
		w.collide(h)
		w.phys.drag(&w.units[i])
		w.apply(h, w.plan(h))
	}
}

func (w *World) move(h Handle) {
	u := &w.units[h]
	w.phys.boundsImpulse(u)
	w.phys.integrate(u, w.classes[u.Class].SpeedMultiplier)
}

// collide pushes h and every living unit overlapping it apart with equal and
// opposite impulses.
func (w *World) collide(h Handle) {
	u := &w.units[h]
	for i := range w.units {
		if Handle(i) == h {
			continue
		}
		o := &w.units[i]
		if o.Dead() || !u.inside(o, w.phys.UnitSize) {
			continue
		}
		imp, ok := w.phys.push(u, o)
		if !ok {
			continue
		}
		u.Vel = u.Vel.Sub(imp)
		o.Vel = o.Vel.Add(imp)
	}
}

// Snapshot copies the render-relevant fields of every unit.
func (w *World) Snapshot() []UnitView {
	out := make([]UnitView, len(w.units))
	for i := range w.units {
		u := &w.units[i]
		out[i] = UnitView{Handle: u.Handle, Team: u.Team, Class: u.Class, Pos: u.Pos, Alive: u.Alive()}
	}
	return out
}

// Unit returns a copy of the unit behind h.
func (w *World) Unit(h Handle) (Unit, bool) {
	if h < 0 || int(h) >= len(w.units) {
		return Unit{}, false
	}
	return w.units[h], true
}

func (w *World) Len() int            { return len(w.units) }
func (w *World) TickCount() uint64   { return w.tick }
func (w *World) Physics() Physics    { return w.phys }
func (w *World) Classes() ClassTable { return w.classes }
func (w *World) Engagements() int    { return w.engagements }
func (w *World) Resolutions() int    { return w.resolutions }

func (w *World) AliveCount(t Team) int {
	n := 0
	for i := range w.units {
		if w.units[i].Team == t && w.units[i].Alive() {
			n++
		}
	}
	return n
}

// Outcome reports the surviving team once at most one side has living units.
// With both sides wiped out decided is true and winner is -1.
func (w *World) Outcome() (winner Team, decided bool) {
	red, blue := w.AliveCount(TeamRed), w.AliveCount(TeamBlue)
	switch {
	case red > 0 && blue > 0:
		return -1, false
	case red > 0:
		return TeamRed, true
	case blue > 0:
		return TeamBlue, true
	}
	return -1, true
}
