package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"legionsim/internal/combat"
	"legionsim/internal/config"
	"legionsim/internal/logging"
	"legionsim/internal/results"
	"legionsim/internal/scenario"
	"legionsim/internal/util"
)

// seedStride spaces the seeds of a batch so neighbouring runs do not share
// generator prefixes.
const seedStride = 7919

type summary struct {
	RunID      string             `json:"run_id"`
	Scenario   string             `json:"scenario"`
	Runs       int                `json:"runs"`
	Seed       int64              `json:"seed"`
	WinRate    map[string]float64 `json:"win_rate"`
	Stalemates int                `json:"stalemates"`
	AvgTicks   float64            `json:"avg_ticks"`
	AvgAlive   map[string]float64 `json:"avg_alive"`
	Stored     int                `json:"stored,omitempty"`
}

func main() {
	var cfgDir, scenarioPath, out string
	var seed int64
	var n int
	var saveLog bool
	flag.StringVar(&cfgDir, "config", ".", "settings dir (legionsim.cfg.json)")
	flag.StringVar(&scenarioPath, "scenario", "", "scenario yaml; empty uses the built-in triple line")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 12345, "seed, 0 picks one from the clock")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.Parse()

	if err := config.Load(cfgDir); err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog := setupLogging()
	defer closeLog()

	sc := config.DefaultScenario()
	if scenarioPath != "" {
		var err error
		if sc, err = config.LoadScenario(scenarioPath); err != nil {
			logger.Error("Failed to load scenario", "path", scenarioPath, "error", err)
			os.Exit(1)
		}
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(scenarioPath)
	}
	if seed == 0 {
		seed = sc.Seed
	}
	seed = util.Resolve(seed)
	sim := config.GetSimConfig()
	maxTicks := sc.MaxTicks
	if maxTicks == 0 {
		maxTicks = sim.MaxTicks
	}

	var store *results.Store
	if rc := config.GetResultsConfig(); rc.Enabled {
		var err error
		if store, err = results.Open(rc.Path); err != nil {
			logger.Error("Failed to open results store", "path", rc.Path, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("Storing outcomes", "path", rc.Path)
	}

	ctx := context.Background()
	runID := uuid.New()

	if n <= 1 {
		var rec *combat.Recorder
		opts := []combat.Option{}
		if saveLog {
			rec = &combat.Recorder{}
			opts = append(opts, combat.WithEmitter(rec.Emit))
		}
		w, err := scenario.NewWorld(sc, seed, opts...)
		if err != nil {
			logger.Error("Failed to build scenario", "scenario", sc.Name, "error", err)
			os.Exit(1)
		}
		start := time.Now()
		res := combat.RunSingle(w, maxTicks, rec)
		logger.Info("Battle finished", "scenario", sc.Name, "seed", seed, "winner", res.Winner,
			"ticks", res.Ticks, "engagements", res.Engagements, "elapsed", time.Since(start))

		if store != nil {
			r := results.NewRecord(runID, sc.Name, seed, res)
			if err := store.Save(ctx, &r); err != nil {
				logger.Warn("Failed to store outcome", "error", err)
			}
		}
		if err := os.WriteFile(out, combat.MarshalPretty(res), 0644); err != nil {
			logger.Error("Failed to write result", "path", out, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Single battle finished. Winner=%s, ticks=%d, units=%d -> %s\n", res.Winner, res.Ticks, res.Meta.Units, out)
		return
	}

	sum, err := runBatch(ctx, logger, sc, seed, n, maxTicks, sim.Workers, runID, store)
	if err != nil {
		logger.Error("Batch failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, combat.MarshalPretty(sum), 0644); err != nil {
		logger.Error("Failed to write summary", "path", out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
}

// setupLogging writes to a session file in logsDir and mirrors warnings to
// stderr. Without a usable logs dir everything goes to stdout.
func setupLogging() (*slog.Logger, func()) {
	lm := logging.NewSlogManager()
	level := config.GetString("logLevel")
	f, err := logging.OpenLogFile(config.GetString("logsDir"), "simsvc", time.Now())
	if err != nil {
		lm.Setup(nil, level)
		lm.Logger().Warn("Logging to stdout only", "error", err)
		return lm.Logger(), func() {}
	}
	lm.Setup(f, level)
	lm.Tee(os.Stderr, "warn")
	return lm.Logger(), func() { f.Close() }
}

// runBatch plays n battles of sc on a worker pool. Run i uses
// seed + i*seedStride, so a batch is reproducible whatever the worker count.
func runBatch(ctx context.Context, logger *slog.Logger, sc *config.ScenarioConfig, seed int64, n, maxTicks, workers int, runID uuid.UUID, store *results.Store) (summary, error) {
	type stat struct {
		Wins       map[string]int
		Stalemates int
		SumTicks   uint64
		SumAlive   map[string]int
		Stored     int
		Err        error
	}
	st := stat{Wins: map[string]int{}, SumAlive: map[string]int{}}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				runSeed := seed + int64(i)*seedStride
				world, err := scenario.NewWorld(sc, runSeed)
				if err != nil {
					mu.Lock()
					if st.Err == nil {
						st.Err = err
					}
					mu.Unlock()
					continue
				}
				res := combat.RunSingle(world, maxTicks, nil)
				logger.Debug("Run finished", "worker", workerID, "run", i, "seed", runSeed, "winner", res.Winner, "ticks", res.Ticks)

				stored := false
				if store != nil {
					r := results.NewRecord(runID, sc.Name, runSeed, res)
					if err := store.Save(ctx, &r); err != nil {
						logger.Warn("Failed to store outcome", "run", i, "error", err)
					} else {
						stored = true
					}
				}

				mu.Lock()
				if res.Decided && res.Winner != "none" {
					st.Wins[res.Winner]++
				} else {
					st.Stalemates++
				}
				st.SumTicks += res.Ticks
				for team, alive := range res.Survivors {
					st.SumAlive[team] += alive
				}
				if stored {
					st.Stored++
				}
				mu.Unlock()
			}
		}(w)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if st.Err != nil {
		return summary{}, st.Err
	}

	sum := summary{
		RunID:      runID.String(),
		Scenario:   sc.Name,
		Runs:       n,
		Seed:       seed,
		WinRate:    map[string]float64{},
		Stalemates: st.Stalemates,
		AvgTicks:   float64(st.SumTicks) / float64(n),
		AvgAlive:   map[string]float64{},
		Stored:     st.Stored,
	}
	for t := combat.Team(0); t < combat.NumTeams; t++ {
		name := t.String()
		sum.WinRate[name] = float64(st.Wins[name]) / float64(n)
		sum.AvgAlive[name] = float64(st.SumAlive[name]) / float64(n)
	}
	logger.Info("Batch finished", "run_id", sum.RunID, "runs", n, "win_rate", sum.WinRate, "stalemates", sum.Stalemates)
	return sum, nil
}
