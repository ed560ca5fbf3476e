package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legionsim/internal/combat"
)

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "debug")

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "Logging initialized")
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info")

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_TimestampsAreUTC(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info")

	line := strings.SplitN(buf.String(), "\n", 2)[0]
	require.True(t, strings.HasPrefix(line, "time="), line)
	ts := strings.Fields(strings.TrimPrefix(line, "time="))[0]
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestTee_WritesToBoth(t *testing.T) {
	var file, extra bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info")
	m.Tee(&extra, "warn")

	m.Logger().Info("only file")
	m.Logger().Warn("everywhere")

	assert.Contains(t, file.String(), "only file")
	assert.Contains(t, file.String(), "everywhere")
	assert.NotContains(t, extra.String(), "only file")
	assert.Contains(t, extra.String(), "everywhere")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(nil, h1, h2))
	logger.With("run", 3).WithGroup("sim").Info("fanned out", "tick", 7)

	for _, buf := range []*bytes.Buffer{&buf1, &buf2} {
		assert.Contains(t, buf.String(), "fanned out")
		assert.Contains(t, buf.String(), "run=3")
		assert.Contains(t, buf.String(), "sim.tick=7")
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	infoHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	infoOnly := NewMultiHandler(infoHandler)
	assert.False(t, infoOnly.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, infoOnly.Enabled(context.Background(), slog.LevelInfo))

	both := NewMultiHandler(infoHandler, debugHandler)
	assert.True(t, both.Enabled(context.Background(), slog.LevelDebug))

	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestMultiHandler_KeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(
		slog.NewTextHandler(failingWriter{}, nil),
		slog.NewTextHandler(&buf, nil),
	)
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "still written", 0)

	err := multi.Handle(context.Background(), r)
	assert.ErrorContains(t, err, "disk full")
	assert.Contains(t, buf.String(), "still written")
}

func TestLogFilePath(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "simsvc.20240309_140507.log"), LogFilePath("logs", "simsvc", start))
}

func TestOpenLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	f, err := OpenLogFile(dir, "battle", time.Now())
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("x")
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEventLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	emit := EventLogger(logger)

	emit(combat.Event{T: 1, Type: "Spawn", Payload: map[string]any{"id": 0}})
	emit(combat.Event{T: 42, Type: "Engage", Payload: map[string]any{"attacker": 3, "defender": 8}})

	out := buf.String()
	assert.NotContains(t, out, "Spawn")
	assert.Contains(t, out, "msg=Engage")
	assert.Contains(t, out, "tick=42")
	assert.Contains(t, out, "attacker=3")
	assert.Contains(t, out, "defender=8")
}
