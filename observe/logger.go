package observe

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// redactedKeys is the lookup set built from RedactedFields.
var redactedKeys = func() map[string]bool {
	m := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		m[k] = true
	}
	return m
}()

// ParseLogLevel parses a string log level, defaulting to info.
func ParseLogLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// zeroLogger is the zerolog-backed Logger implementation.
type zeroLogger struct {
	zl zerolog.Logger
}

// NewLogger creates a new structured logger with the given level.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a new structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	zl := zerolog.New(w).Level(ParseLogLevel(level)).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// WithComponent returns a logger with a component name attached.
func (l *zeroLogger) WithComponent(name string) Logger {
	return &zeroLogger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *zeroLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zeroLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *zeroLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *zeroLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zeroLogger) emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		if redactedKeys[f.Key] {
			e = e.Str(f.Key, "[REDACTED]")
		} else {
			e = e.Interface(f.Key, f.Value)
		}
	}
	e.Msg(msg)
}

// nopLogger discards all log output.
type nopLogger struct{}

// NopLogger returns a Logger that discards everything. It is the default
// wherever a Logger is optional.
func NopLogger() Logger { return nopLogger{} }

func (nopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (nopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (nopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (nopLogger) WithComponent(name string) Logger                       { return nopLogger{} }

// Ensure implementations satisfy Logger
var (
	_ Logger = (*zeroLogger)(nil)
	_ Logger = nopLogger{}
)
