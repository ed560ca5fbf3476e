package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"legionsim/internal/combat"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}

// OpenLogFile creates logsDir if needed and opens a fresh session log in it.
func OpenLogFile(logsDir, name string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	path := LogFilePath(logsDir, name, sessionStart)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// EventLogger returns an emitter that writes every battle event as a debug
// record. Spawn events are dropped; a large scenario would flood the log.
func EventLogger(logger *slog.Logger) func(combat.Event) {
	return func(ev combat.Event) {
		if ev.Type == "Spawn" {
			return
		}
		attrs := make([]any, 0, 2+2*len(ev.Payload))
		attrs = append(attrs, "tick", ev.T)
		for k, v := range ev.Payload {
			attrs = append(attrs, k, v)
		}
		logger.Debug(ev.Type, attrs...)
	}
}
