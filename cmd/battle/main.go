package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"legionsim/internal/combat"
	"legionsim/internal/config"
	"legionsim/internal/logging"
	"legionsim/internal/render"
	"legionsim/internal/scenario"
	"legionsim/internal/util"
)

type viewer struct {
	screen   tcell.Screen
	renderer *render.Renderer
	logger   *slog.Logger

	sc       *config.ScenarioConfig
	seed     int64
	world    *combat.World
	paused   bool
	finished bool
}

func newViewer(screen tcell.Screen, sc *config.ScenarioConfig, seed int64, logger *slog.Logger) (*viewer, error) {
	v := &viewer{
		screen:   screen,
		renderer: render.NewRenderer(),
		logger:   logger,
		sc:       sc,
		seed:     seed,
	}
	if err := v.restart(); err != nil {
		return nil, err
	}
	return v, nil
}

// restart rebuilds the world from the scenario. Every restart after the first
// draws a fresh seed so the same layout plays out differently.
func (v *viewer) restart() error {
	if v.world != nil {
		v.seed = util.Resolve(0)
	}
	w, err := scenario.NewWorld(v.sc, v.seed, combat.WithEmitter(logging.EventLogger(v.logger)))
	if err != nil {
		return err
	}
	v.world = w
	v.finished = false
	v.logger.Info("Battle started", "scenario", v.sc.Name, "seed", v.seed, "units", w.Len())
	return nil
}

func (v *viewer) step() {
	if v.paused || v.finished {
		return
	}
	v.world.Tick()
	if winner, decided := v.world.Outcome(); decided {
		v.finished = true
		v.logger.Info("Battle decided", "winner", winner.String(), "ticks", v.world.TickCount())
	}
}

func (v *viewer) draw() {
	hud := render.HUD{
		Scenario: v.sc.Name,
		Tick:     v.world.TickCount(),
		Paused:   v.paused,
	}
	for t := combat.Team(0); t < combat.NumTeams; t++ {
		hud.Alive[t] = v.world.AliveCount(t)
	}
	v.renderer.Draw(v.screen, v.world.Snapshot(), v.world.Physics(), hud)
	v.screen.Show()
}

// handleInput returns false when the viewer should quit.
func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'r':
				if err := v.restart(); err != nil {
					v.logger.Error("Restart failed", "error", err)
					return false
				}
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) run(ups int) {
	ticker := time.NewTicker(time.Second / time.Duration(ups))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			v.step()
			v.draw()
		}
	}
}

func main() {
	var cfgDir, scenarioPath string
	var seed int64
	flag.StringVar(&cfgDir, "config", ".", "settings dir (legionsim.cfg.json)")
	flag.StringVar(&scenarioPath, "scenario", "", "scenario yaml; empty uses the built-in triple line")
	flag.Int64Var(&seed, "seed", 0, "seed, 0 picks one from the clock")
	flag.Parse()

	if err := config.Load(cfgDir); err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(1)
	}

	// the screen owns stdout, so logs only ever go to the session file
	lm := logging.NewSlogManager()
	f, err := logging.OpenLogFile(config.GetString("logsDir"), "battle", time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logs: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	lm.Setup(f, config.GetString("logLevel"))
	logger := lm.Logger()

	sc := config.DefaultScenario()
	if scenarioPath != "" {
		if sc, err = config.LoadScenario(scenarioPath); err != nil {
			fmt.Fprintf(os.Stderr, "scenario: %v\n", err)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if seed == 0 {
		seed = sc.Seed
	}
	v, err := newViewer(screen, sc, util.Resolve(seed), logger)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "scenario: %v\n", err)
		os.Exit(1)
	}
	v.run(config.GetSimConfig().UPS)
	screen.Fini()
}
