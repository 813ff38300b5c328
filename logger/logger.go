// Package logger wraps zerolog with the fields every component of the
// dashboard logs with.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin handle around a configured zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

// Options configures a Logger.
type Options struct {
	Level       string
	Format      string // json or console
	Output      io.Writer
	ServiceName string
}

// New builds a Logger.
func New(opts Options) *Logger {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	var zl zerolog.Logger
	if opts.Format == "console" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339})
	} else {
		zl = zerolog.New(output)
	}

	service := opts.ServiceName
	if service == "" {
		service = "foodintel"
	}

	zl = zl.Level(ParseLevel(opts.Level)).With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything. Tests use it.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

var std = New(Options{Level: "info", Format: "console"})

// Default returns the process-wide logger.
func Default() *Logger {
	return std
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	if l != nil {
		std = l
	}
}

// WithOperation returns a logger tagged with the operation name.
func (l *Logger) WithOperation(op string) *Logger {
	return &Logger{zl: l.zl.With().Str("operation", op).Logger()}
}

// WithUser returns a logger tagged with the acting user.
func (l *Logger) WithUser(userID string) *Logger {
	if userID == "" {
		return l
	}
	return &Logger{zl: l.zl.With().Str("user_id", userID).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Zerolog exposes the underlying logger for libraries that accept one.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
