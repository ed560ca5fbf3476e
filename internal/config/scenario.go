package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"legionsim/internal/combat"
)

var ErrInvalidScenario = errors.New("invalid scenario")

const DefaultSpacing = 8.0

type ScenarioConfig struct {
	Name     string              `yaml:"name"`
	Seed     int64               `yaml:"seed"`
	MaxTicks int                 `yaml:"max_ticks"`
	Arena    *ArenaDef           `yaml:"arena"`
	Physics  PhysicsDef          `yaml:"physics"`
	Classes  map[string]ClassDef `yaml:"classes"`
	Armies   []ArmyDef           `yaml:"armies"`
}

type ArenaDef struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsDef overrides individual physics constants. Nil fields keep the
// defaults.
type PhysicsDef struct {
	BoundsImpulse *float64 `yaml:"bounds_impulse"`
	MaxSpeed      *float64 `yaml:"max_speed"`
	Drag          *float64 `yaml:"drag"`
	UnitSize      *float64 `yaml:"unit_size"`
	MinSeparation *float64 `yaml:"min_separation"`
	PushPower     *float64 `yaml:"push_power"`
	Accel         *float64 `yaml:"accel"`
	EngageRange   *float64 `yaml:"engage_range"`
	CombatDamping *float64 `yaml:"combat_damping"`
}

type ClassDef struct {
	BattleBonus     *float64 `yaml:"battle_bonus"`
	RangeMultiplier *float64 `yaml:"range_multiplier"`
	SpeedMultiplier *float64 `yaml:"speed_multiplier"`
	BaseHealth      *int     `yaml:"base_health"`
	IdleWait        *int     `yaml:"idle_wait"`
}

// ArmyDef is a rectangular block of one class: cols x rows units starting at
// (x, y), spacing apart.
type ArmyDef struct {
	Team    string  `yaml:"team"`
	Class   string  `yaml:"class"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Cols    int     `yaml:"cols"`
	Rows    int     `yaml:"rows"`
	Spacing float64 `yaml:"spacing"`
}

func LoadScenario(path string) (*ScenarioConfig, error) {
	var sc ScenarioConfig
	if err := loadYAML(path, &sc); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return &sc, nil
}

func ParseScenario(b []byte) (*ScenarioConfig, error) {
	var sc ScenarioConfig
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *ScenarioConfig) Validate() error {
	if sc.Arena != nil && (sc.Arena.Width <= 0 || sc.Arena.Height <= 0) {
		return fmt.Errorf("%w: arena %vx%v", ErrInvalidScenario, sc.Arena.Width, sc.Arena.Height)
	}
	if sc.MaxTicks < 0 {
		return fmt.Errorf("%w: max_ticks %d", ErrInvalidScenario, sc.MaxTicks)
	}
	for name, def := range sc.Classes {
		if _, err := combat.ParseClass(name); err != nil {
			return fmt.Errorf("%w: classes: %v", ErrInvalidScenario, err)
		}
		if def.BaseHealth != nil && *def.BaseHealth < 1 {
			return fmt.Errorf("%w: classes.%s.base_health %d", ErrInvalidScenario, name, *def.BaseHealth)
		}
		if def.IdleWait != nil && *def.IdleWait < 0 {
			return fmt.Errorf("%w: classes.%s.idle_wait %d", ErrInvalidScenario, name, *def.IdleWait)
		}
	}
	for i, a := range sc.Armies {
		if _, err := combat.ParseTeam(a.Team); err != nil {
			return fmt.Errorf("%w: armies[%d]: %v", ErrInvalidScenario, i, err)
		}
		if _, err := combat.ParseClass(a.Class); err != nil {
			return fmt.Errorf("%w: armies[%d]: %v", ErrInvalidScenario, i, err)
		}
		if a.Cols <= 0 || a.Rows <= 0 {
			return fmt.Errorf("%w: armies[%d]: %dx%d block", ErrInvalidScenario, i, a.Cols, a.Rows)
		}
		if a.Spacing < 0 {
			return fmt.Errorf("%w: armies[%d]: spacing %v", ErrInvalidScenario, i, a.Spacing)
		}
	}
	return nil
}

// PhysicsParams applies the arena and physics overrides to the defaults.
func (sc *ScenarioConfig) PhysicsParams() combat.Physics {
	p := combat.DefaultPhysics()
	if sc.Arena != nil {
		p.Width, p.Height = sc.Arena.Width, sc.Arena.Height
	}
	d := sc.Physics
	set(&p.BoundsImpulse, d.BoundsImpulse)
	set(&p.MaxSpeed, d.MaxSpeed)
	set(&p.Drag, d.Drag)
	set(&p.UnitSize, d.UnitSize)
	set(&p.MinSeparation, d.MinSeparation)
	set(&p.PushPower, d.PushPower)
	set(&p.Accel, d.Accel)
	set(&p.EngageRange, d.EngageRange)
	set(&p.CombatDamping, d.CombatDamping)
	return p
}

// ClassTable applies the per-class overrides to the default table. Call
// Validate first; unknown class names are skipped.
func (sc *ScenarioConfig) ClassTable() combat.ClassTable {
	t := combat.DefaultClassTable()
	for name, def := range sc.Classes {
		c, err := combat.ParseClass(name)
		if err != nil {
			continue
		}
		s := &t[c]
		set(&s.BattleBonus, def.BattleBonus)
		set(&s.RangeMultiplier, def.RangeMultiplier)
		set(&s.SpeedMultiplier, def.SpeedMultiplier)
		set(&s.BaseHealth, def.BaseHealth)
		set(&s.IdleWait, def.IdleWait)
	}
	return t
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// DefaultScenario is a triple line per side: skirmishers in front, then
// hastati, principes and the triarii in reserve.
func DefaultScenario() *ScenarioConfig {
	sc := &ScenarioConfig{Name: "triplex-acies", MaxTicks: 20000}
	lines := []struct {
		class string
		depth float64
		cols  int
	}{
		{"velites", 420, 3},
		{"hastati", 340, 6},
		{"principes", 260, 6},
		{"triarii", 180, 4},
	}
	for _, l := range lines {
		sc.Armies = append(sc.Armies,
			ArmyDef{Team: "red", Class: l.class, X: l.depth, Y: 260, Cols: l.cols, Rows: 24, Spacing: DefaultSpacing},
			ArmyDef{Team: "blue", Class: l.class, X: 1280 - l.depth - float64(l.cols-1)*DefaultSpacing, Y: 260, Cols: l.cols, Rows: 24, Spacing: DefaultSpacing},
		)
	}
	return sc
}
