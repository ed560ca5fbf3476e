package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legionsim/internal/config"
	"legionsim/internal/results"
)

const skirmish = `
name: skirmish
armies:
  - {team: red, class: velites, x: 300, y: 300, cols: 2, rows: 2}
  - {team: blue, class: velites, x: 330, y: 300, cols: 2, rows: 2}
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunBatch_IndependentOfWorkerCount(t *testing.T) {
	sc, err := config.ParseScenario([]byte(skirmish))
	require.NoError(t, err)
	ctx := context.Background()

	one, err := runBatch(ctx, quietLogger(), sc, 5, 6, 3000, 1, uuid.New(), nil)
	require.NoError(t, err)
	four, err := runBatch(ctx, quietLogger(), sc, 5, 6, 3000, 4, uuid.New(), nil)
	require.NoError(t, err)

	assert.Equal(t, one.WinRate, four.WinRate)
	assert.Equal(t, one.AvgTicks, four.AvgTicks)
	assert.Equal(t, one.Stalemates, four.Stalemates)
	assert.NotEqual(t, one.RunID, four.RunID)

	total := float64(one.Stalemates) / 6
	for _, r := range one.WinRate {
		total += r
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, 6, one.Runs)
	assert.Equal(t, "skirmish", one.Scenario)
}

func TestRunBatch_StoresOutcomes(t *testing.T) {
	sc, err := config.ParseScenario([]byte(skirmish))
	require.NoError(t, err)
	store, err := results.Open("")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	sum, err := runBatch(ctx, quietLogger(), sc, 9, 5, 3000, 2, uuid.New(), store)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Stored)

	tally, err := store.WinRates(ctx, "skirmish")
	require.NoError(t, err)
	assert.Equal(t, 5, tally.Runs)
	assert.InDelta(t, sum.WinRate["red"], tally.Rate("red"), 1e-9)
}
