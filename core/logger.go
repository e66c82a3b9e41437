package core

import (
	"context"
	"log/slog"
	"os"
)

// Logger interface for structured logging
// Implementations can provide custom logging behavior (e.g., integration with logrus, zap, etc.)
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error message with optional fields
	Error(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l. A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

// NewDefaultLogger creates a text logger on stderr at Info level.
func NewDefaultLogger() *SlogLogger {
	return NewLeveledLogger(slog.LevelInfo)
}

// NewLeveledLogger creates a text logger on stderr at the given level.
func NewLeveledLogger(level slog.Level) *SlogLogger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &SlogLogger{l: slog.New(h)}
}

// Debug logs a debug message
func (s *SlogLogger) Debug(msg string, fields ...Field) {
	s.log(slog.LevelDebug, msg, fields)
}

// Info logs an info message
func (s *SlogLogger) Info(msg string, fields ...Field) {
	s.log(slog.LevelInfo, msg, fields)
}

// Warn logs a warning message
func (s *SlogLogger) Warn(msg string, fields ...Field) {
	s.log(slog.LevelWarn, msg, fields)
}

// Error logs an error message
func (s *SlogLogger) Error(msg string, fields ...Field) {
	s.log(slog.LevelError, msg, fields)
}

func (s *SlogLogger) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = slog.Any(f.Key, f.Value)
	}
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

// NoOpLogger is a logger that discards all log messages
// Useful for tests or when logging is not desired
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field)  {}
func (l *NoOpLogger) Warn(msg string, fields ...Field)  {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}
