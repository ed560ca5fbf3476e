// Package scenario turns scenario configs into populated worlds.
package scenario

import (
	"fmt"

	"legionsim/internal/combat"
	"legionsim/internal/config"
)

// AddBlock spawns a cols x rows grid of one class, row by row, with the first
// unit at pos. It returns the handles in spawn order.
func AddBlock(w *combat.World, pos combat.Vec2, cols, rows int, team combat.Team, class combat.Class, spacing float64) ([]combat.Handle, error) {
	if spacing <= 0 {
		spacing = config.DefaultSpacing
	}
	handles := make([]combat.Handle, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := pos.Add(combat.Vec2{X: float64(c) * spacing, Y: float64(r) * spacing})
			h, err := w.Spawn(team, class, p)
			if err != nil {
				return handles, err
			}
			handles = append(handles, h)
		}
	}
	return handles, nil
}

// NewWorld builds a world with the scenario's physics, class table and seed
// and spawns its armies. seed overrides sc.Seed when non-zero. Extra options
// are applied last.
func NewWorld(sc *config.ScenarioConfig, seed int64, opts ...combat.Option) (*combat.World, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = sc.Seed
	}
	base := []combat.Option{
		combat.WithPhysics(sc.PhysicsParams()),
		combat.WithClasses(sc.ClassTable()),
		combat.WithSeed(seed),
	}
	w := combat.NewWorld(append(base, opts...)...)
	if err := Build(w, sc); err != nil {
		return nil, err
	}
	return w, nil
}

// Build spawns every army block of sc into w in file order.
func Build(w *combat.World, sc *config.ScenarioConfig) error {
	for i, a := range sc.Armies {
		team, err := combat.ParseTeam(a.Team)
		if err != nil {
			return fmt.Errorf("armies[%d]: %w", i, err)
		}
		class, err := combat.ParseClass(a.Class)
		if err != nil {
			return fmt.Errorf("armies[%d]: %w", i, err)
		}
		if _, err := AddBlock(w, combat.Vec2{X: a.X, Y: a.Y}, a.Cols, a.Rows, team, class, a.Spacing); err != nil {
			return fmt.Errorf("armies[%d]: %w", i, err)
		}
	}
	return nil
}
