package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

var logrusLevels = map[zerolog.Level]logrus.Level{
	zerolog.TraceLevel: logrus.TraceLevel,
	zerolog.DebugLevel: logrus.DebugLevel,
	zerolog.InfoLevel:  logrus.InfoLevel,
	zerolog.WarnLevel:  logrus.WarnLevel,
	zerolog.ErrorLevel: logrus.ErrorLevel,
	zerolog.FatalLevel: logrus.FatalLevel,
	zerolog.PanicLevel: logrus.PanicLevel,
}

// LogrusLogger implements Logger using sirupsen/logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a LogrusLogger tagged with component. It honours
// the same output, format and level settings as the zerolog backend.
func NewLogrusLogger(component string) Logger {
	mu.RLock()
	w, f, lvl := output, format, level
	mu.RUnlock()
	l := logrus.New()
	l.SetOutput(w)
	if f == "console" || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	if ll, ok := logrusLevels[lvl]; ok {
		l.SetLevel(ll)
	} else {
		l.SetLevel(logrus.PanicLevel)
	}
	return &LogrusLogger{entry: l.WithField("component", component)}
}

func (l *LogrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }

func (l *LogrusLogger) Debugw(msg string, fields map[string]any) {
	l.entry.WithFields(fields).Debug(msg)
}

func (l *LogrusLogger) Infof(format string, args ...any) { l.entry.Infof(format, args...) }

func (l *LogrusLogger) Infow(msg string, fields map[string]any) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *LogrusLogger) Warnf(format string, args ...any) { l.entry.Warnf(format, args...) }

func (l *LogrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
