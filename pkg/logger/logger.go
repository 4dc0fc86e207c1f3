package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"scholar-lens/internal/domain"
)

// AppLogger implements the domain.Logger interface on top of zerolog
type AppLogger struct {
	logger zerolog.Logger
}

// NewLogger creates a new JSON logger writing to stdout
func NewLogger(levelStr string) domain.Logger {
	return NewWithWriter(levelStr, os.Stdout)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(levelStr string, w io.Writer) domain.Logger {
	l := zerolog.New(w).
		With().
		Timestamp().
		Str("service", "scholar-lens").
		Logger().
		Level(parseLogLevel(levelStr))

	return &AppLogger{logger: l}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info().Fields(normalize(fields)).Msg(msg)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	l.logger.Error().Err(err).Fields(normalize(fields)).Msg(msg)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug().Fields(normalize(fields)).Msg(msg)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn().Fields(normalize(fields)).Msg(msg)
}

// normalize drops a trailing key without a value so zerolog does not log a
// dangling field.
func normalize(fields []interface{}) []interface{} {
	if len(fields)%2 == 1 {
		return fields[:len(fields)-1]
	}
	return fields
}

// parseLogLevel converts string log level to a zerolog level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "warning":
		return zerolog.WarnLevel
	case "":
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
