package combat

import (
	"fmt"
	"strings"
)

// Class is one of the four legion roles.
type Class int

const (
	Triarii   Class = iota // heavy reserve
	Principes              // mid line
	Hastati                // light line
	Velites                // skirmishers

	NumClasses = 4
)

var classNames = [NumClasses]string{"triarii", "principes", "hastati", "velites"}
var classRoles = [NumClasses]string{"heavy", "mid", "light", "skirmisher"}

func (c Class) Valid() bool { return c >= 0 && c < NumClasses }

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("class(%d)", int(c))
	}
	return classNames[c]
}

// Role is the tactical role name of the class.
func (c Class) Role() string {
	if !c.Valid() {
		return ""
	}
	return classRoles[c]
}

// ParseClass accepts the Latin name or the role name, case-insensitively.
func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := 0; i < NumClasses; i++ {
		if s == classNames[i] || s == classRoles[i] {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownClass, s)
}

// ClassStats are the immutable per-class modifiers.
type ClassStats struct {
	BattleBonus     float64 `json:"battle_bonus"`
	RangeMultiplier float64 `json:"range_multiplier"`
	SpeedMultiplier float64 `json:"speed_multiplier"`
	BaseHealth      int     `json:"base_health"`
	IdleWait        int     `json:"idle_wait"`
}

type ClassTable [NumClasses]ClassStats

const maxHealth = 50

func DefaultClassTable() ClassTable {
	return ClassTable{
		Triarii:   {BattleBonus: 1.6, RangeMultiplier: 1.4, SpeedMultiplier: 0.7, BaseHealth: maxHealth, IdleWait: 35 * 60},
		Principes: {BattleBonus: 1.3, RangeMultiplier: 1.8, SpeedMultiplier: 1.2, BaseHealth: maxHealth - 10, IdleWait: 20 * 60},
		Hastati:   {BattleBonus: 0.9, RangeMultiplier: 1.0, SpeedMultiplier: 1.2, BaseHealth: maxHealth - 20, IdleWait: 7 * 60},
		Velites:   {BattleBonus: 1.0, RangeMultiplier: 2.2, SpeedMultiplier: 1.5, BaseHealth: maxHealth - 30, IdleWait: 10},
	}
}

func (t ClassTable) Of(c Class) ClassStats { return t[c] }
