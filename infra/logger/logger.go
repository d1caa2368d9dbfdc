package logger

import corelogger "github.com/kilianp07/pmsched/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards all output.
type NopLogger = corelogger.Nop

// Backends selectable through Options.Backend.
const (
	BackendZerolog = "zerolog"
	BackendLogrus  = "logrus"
)

// Options tune the process-wide output. Zero values keep the defaults:
// zerolog JSON output at info level, console output when APP_ENV=dev.
type Options struct {
	Level   string `json:"level"`
	Format  string `json:"format"`
	Backend string `json:"backend"`
}

// New returns a Logger for the given component using the configured backend.
func New(component string) Logger {
	mu.RLock()
	b := backend
	mu.RUnlock()
	if b == BackendLogrus {
		return NewLogrusLogger(component)
	}
	return NewZerologLogger(component)
}
