package combat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPosition = errors.New("position is not finite")
	ErrUnknownClass    = errors.New("unknown unit class")
	ErrUnknownTeam     = errors.New("unknown team")
)

type Event struct {
	T       uint64         `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Handle identifies a unit for its whole lifetime. It is the unit's index in
// the world and is never reused.
type Handle int

type Team int

const (
	TeamRed Team = iota
	TeamBlue

	NumTeams = 2
)

func (t Team) Valid() bool { return t == TeamRed || t == TeamBlue }

func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	}
	return fmt.Sprintf("team(%d)", int(t))
}

// ParseTeam accepts red/blue or the side letters a/b.
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "a":
		return TeamRed, nil
	case "blue", "b":
		return TeamBlue, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTeam, s)
}

type StateKind uint8

const (
	StateIdle StateKind = iota
	StateCharging
	StateAttacking
	StateDefending
	StateDead
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateCharging:
		return "charging"
	case StateAttacking:
		return "attacking"
	case StateDefending:
		return "defending"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// State is the combat state of one unit. Other is the target (Charging,
// Attacking) or the attacker (Defending) and is meaningless otherwise.
type State struct {
	Kind  StateKind
	Ticks int
	Other Handle
}

func Idle(t int) State { return State{Kind: StateIdle, Ticks: t, Other: -1} }
func Charging(t int, target Handle) State { return State{Kind: StateCharging, Ticks: t, Other: target} }
func Attacking(t int, target Handle) State { return State{Kind: StateAttacking, Ticks: t, Other: target} }
func Defending(t int, by Handle) State { return State{Kind: StateDefending, Ticks: t, Other: by} }
func Dead() State { return State{Kind: StateDead, Other: -1} }

func (s State) String() string {
	switch s.Kind {
	case StateIdle:
		return fmt.Sprintf("idle(%d)", s.Ticks)
	case StateDead:
		return "dead"
	}
	return fmt.Sprintf("%s(%d, #%d)", s.Kind, s.Ticks, s.Other)
}

type Unit struct {
	Handle Handle
	Team   Team
	Class  Class
	Pos    Vec2
	Vel    Vec2
	Health int
	Level  float64
	State  State
}

func (u *Unit) Alive() bool { return u.State.Kind != StateDead }
func (u *Unit) Dead() bool  { return u.State.Kind == StateDead }

// inside reports whether the bounding squares of u and o overlap.
func (u *Unit) inside(o *Unit, size float64) bool {
	dx := u.Pos.X - o.Pos.X
	dy := u.Pos.Y - o.Pos.Y
	return dx < size && dx > -size && dy < size && dy > -size
}

// UnitView is the read-only per-unit record handed to renderers.
type UnitView struct {
	Handle Handle
	Team   Team
	Class  Class
	Pos    Vec2
	Alive  bool
}
