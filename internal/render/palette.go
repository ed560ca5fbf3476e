package render

import (
	"github.com/gdamore/tcell/v2"

	"legionsim/internal/combat"
)

var (
	Grass = tcell.NewRGBColor(107, 168, 51)
	// Fallen units are a dark shade over the grass.
	Fallen = tcell.NewRGBColor(96, 151, 46)
)

// Palette maps units to colours. Heavier classes are darker.
type Palette struct {
	Background tcell.Color
	Dead       tcell.Color
	Units      [combat.NumTeams][combat.NumClasses]tcell.Color
}

func DefaultPalette() Palette {
	return Palette{
		Background: Grass,
		Dead:       Fallen,
		Units: [combat.NumTeams][combat.NumClasses]tcell.Color{
			combat.TeamRed: {
				combat.Triarii:   tcell.NewRGBColor(125, 0, 0),
				combat.Principes: tcell.NewRGBColor(150, 32, 32),
				combat.Hastati:   tcell.NewRGBColor(175, 65, 65),
				combat.Velites:   tcell.NewRGBColor(200, 100, 100),
			},
			combat.TeamBlue: {
				combat.Triarii:   tcell.NewRGBColor(0, 0, 125),
				combat.Principes: tcell.NewRGBColor(32, 32, 150),
				combat.Hastati:   tcell.NewRGBColor(65, 65, 175),
				combat.Velites:   tcell.NewRGBColor(100, 100, 200),
			},
		},
	}
}

func (p *Palette) Unit(u combat.UnitView) tcell.Color {
	if !u.Alive {
		return p.Dead
	}
	if !u.Team.Valid() || !u.Class.Valid() {
		return tcell.ColorWhite
	}
	return p.Units[u.Team][u.Class]
}
