// Package render draws world snapshots onto a terminal screen.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"legionsim/internal/combat"
)

const (
	unitGlyph  = '█'
	fallGlyph  = '░'
	hudHeight  = 1
	minRows    = hudHeight + 1
	pausedMark = "  [paused]"
)

// HUD is the status line under the battlefield.
type HUD struct {
	Scenario string
	Tick     uint64
	Alive    [combat.NumTeams]int
	Paused   bool
}

func (h HUD) String() string {
	s := fmt.Sprintf(" %s  tick %d  red %d  blue %d", h.Scenario, h.Tick, h.Alive[combat.TeamRed], h.Alive[combat.TeamBlue])
	if h.Paused {
		s += pausedMark
	}
	return s
}

type Renderer struct {
	Palette Palette
}

func NewRenderer() *Renderer {
	return &Renderer{Palette: DefaultPalette()}
}

// Draw paints the arena scaled to the screen with the HUD on the last row.
// Fallen units are drawn first so living ones stay visible on top of them.
// The caller shows the screen.
func (r *Renderer) Draw(s tcell.Screen, units []combat.UnitView, arena combat.Physics, hud HUD) {
	cols, rows := s.Size()
	if cols < 1 || rows < minRows {
		return
	}
	field := rows - hudHeight
	bg := tcell.StyleDefault.Background(r.Palette.Background)
	s.Fill(' ', bg)

	for pass := 0; pass < 2; pass++ {
		alive := pass == 1
		for _, u := range units {
			if u.Alive != alive {
				continue
			}
			x, y, ok := cell(u.Pos, arena, cols, field)
			if !ok {
				continue
			}
			glyph := unitGlyph
			if !alive {
				glyph = fallGlyph
			}
			s.SetContent(x, y, glyph, nil, bg.Foreground(r.Palette.Unit(u)))
		}
	}

	hudStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	line := []rune(hud.String())
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(line) {
			ch = line[x]
		}
		s.SetContent(x, rows-1, ch, nil, hudStyle)
	}
}

// cell maps an arena position to a grid cell. Positions slightly outside the
// arena are pinned to the border; non-finite ones are dropped.
func cell(p combat.Vec2, arena combat.Physics, cols, rows int) (int, int, bool) {
	if !p.Finite() || arena.Width <= 0 || arena.Height <= 0 {
		return 0, 0, false
	}
	x := int(p.X / arena.Width * float64(cols))
	y := int(p.Y / arena.Height * float64(rows))
	return pin(x, cols), pin(y, rows), true
}

func pin(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
