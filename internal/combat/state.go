package combat

const (
	noHandle Handle = -1

	retargetWait  = 5
	abandonWait   = 2
	chargeBudget  = 10
	battleTimeMin = 60
	battleTimeLen = 60
	winDamage     = 3
)

// Rand is the randomness a world draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Strength is the combat power of a unit: level and class bonus scaled by the
// fraction of base health left.
func Strength(level, bonus float64, health, baseHealth int) float64 {
	if baseHealth <= 0 {
		return 0
	}
	return level * bonus * float64(health) / float64(baseHealth)
}

// WinProbability is the chance that a side of strength s1 beats one of s2.
func WinProbability(s1, s2 float64) float64 {
	if s1+s2 <= 0 {
		return 0.5
	}
	return s1 / (s1 + s2)
}

// Duel draws one outcome; true means the side of strength s1 won.
func Duel(rng Rand, s1, s2 float64) bool {
	return rng.Float64() < WinProbability(s1, s2)
}

// effect is everything one transition changes. It is computed from a
// read-only view of the world and committed afterwards by World.apply, so a
// transition never holds two live references into the unit slice.
type effect struct {
	next   State
	accel  Vec2
	damp   float64
	health int // -1 keeps the current value

	other     Handle
	otherNext State

	engaged  bool
	resolved bool
	events   []Event
}

func stay(next State) effect {
	return effect{next: next, damp: 1, health: -1, other: noHandle}
}

func (w *World) strength(u *Unit) float64 {
	c := w.classes[u.Class]
	return Strength(u.Level, c.BattleBonus, u.Health, c.BaseHealth)
}

// lookup resolves a handle held in a state. Out-of-range handles read as dead.
func (w *World) lookup(h Handle) (*Unit, bool) {
	if h < 0 || int(h) >= len(w.units) {
		return nil, false
	}
	u := &w.units[h]
	return u, u.Alive()
}

// nearestEnemy returns the closest living unit of the other team. Ties keep
// the lower handle.
func (w *World) nearestEnemy(self *Unit) (Handle, float64) {
	best, bestDist := noHandle, 0.0
	for i := range w.units {
		o := &w.units[i]
		if o.Handle == self.Handle || o.Dead() || o.Team == self.Team {
			continue
		}
		d := self.Pos.Dist(o.Pos)
		if best == noHandle || d < bestDist {
			best, bestDist = o.Handle, d
		}
	}
	return best, bestDist
}

// plan computes the transition of unit h. It reads the world and draws from
// the rng but writes nothing else.
func (w *World) plan(h Handle) effect {
	u := &w.units[h]
	s := u.State

	switch s.Kind {
	case StateIdle:
		if s.Ticks > 0 {
			return stay(Idle(s.Ticks - 1))
		}
		target, dist := w.nearestEnemy(u)
		if target == noHandle {
			return stay(Idle(retargetWait))
		}
		e := stay(Charging(chargeBudget, target))
		w.note(&e, "Target", map[string]any{"id": int(h), "target": int(target), "dist": dist})
		return e

	case StateCharging:
		target, alive := w.lookup(s.Other)
		if !alive {
			return stay(Idle(retargetWait))
		}
		if s.Ticks == 0 {
			return stay(Idle(abandonWait))
		}
		e := stay(Charging(s.Ticks-1, s.Other))
		e.accel = FromAngle(u.Pos.AngleTo(target.Pos), w.phys.Accel)
		reach := w.phys.EngageRange * w.classes[u.Class].RangeMultiplier
		if u.Pos.Dist(target.Pos) < reach {
			bt := battleTimeMin + int(w.rng.Float64()*battleTimeLen)
			e.next = Attacking(bt, s.Other)
			e.other, e.otherNext = s.Other, Defending(bt, h)
			e.engaged = true
			w.note(&e, "Engage", map[string]any{"attacker": int(h), "defender": int(s.Other), "ticks": bt})
		}
		return e

	case StateAttacking:
		target, alive := w.lookup(s.Other)
		if !alive {
			return stay(Idle(retargetWait))
		}
		if s.Ticks > 0 {
			e := stay(Attacking(s.Ticks-1, s.Other))
			e.damp = w.phys.CombatDamping
			return e
		}
		return w.resolve(u, target)

	case StateDefending:
		if _, alive := w.lookup(s.Other); !alive {
			return stay(Idle(retargetWait))
		}
		if s.Ticks > 0 {
			e := stay(Defending(s.Ticks-1, s.Other))
			e.damp = w.phys.CombatDamping
			return e
		}
		return stay(Idle(retargetWait))
	}
	return stay(Dead())
}

// resolve settles an exchange from the attacker's side. The defender is only
// written when the attacker wins.
func (w *World) resolve(u, target *Unit) effect {
	s1, s2 := w.strength(u), w.strength(target)
	p := WinProbability(s1, s2)
	won := Duel(w.rng, s1, s2)

	var e effect
	if !won {
		e = stay(Dead())
		e.health = 0
		e.resolved = true
		w.note(&e, "Resolve", map[string]any{"attacker": int(u.Handle), "defender": int(target.Handle), "p": p, "won": false})
		w.noteDeath(&e, u)
		return e
	}

	hp := u.Health - winDamage
	if hp < 0 {
		hp = 0
	}
	if hp == 0 {
		e = stay(Dead())
	} else {
		e = stay(Idle(retargetWait))
	}
	e.health = hp
	e.resolved = true
	e.other, e.otherNext = target.Handle, Dead()
	w.note(&e, "Resolve", map[string]any{"attacker": int(u.Handle), "defender": int(target.Handle), "p": p, "won": true})
	w.noteDeath(&e, target)
	if hp == 0 {
		w.noteDeath(&e, u)
	}
	return e
}

func (w *World) note(e *effect, typ string, payload map[string]any) {
	if w.emit == nil {
		return
	}
	e.events = append(e.events, Event{T: w.tick, Type: typ, Payload: payload})
}

func (w *World) noteDeath(e *effect, u *Unit) {
	w.note(e, "Death", map[string]any{"id": int(u.Handle), "team": u.Team.String(), "class": u.Class.String()})
}

// apply commits an effect: first the unit's own fields, then the single
// cross-unit write.
func (w *World) apply(h Handle, e effect) {
	u := &w.units[h]
	u.Vel = u.Vel.Add(e.accel).Scale(e.damp)
	if e.health >= 0 {
		u.Health = e.health
	}
	u.State = e.next
	if u.Health == 0 {
		u.State = Dead()
	}
	if e.other != noHandle {
		w.units[e.other].State = e.otherNext
	}
	if e.engaged {
		w.engagements++
	}
	if e.resolved {
		w.resolutions++
	}
	for _, ev := range e.events {
		w.emit(ev)
	}
}
