// Package logging is a thin structured logger over log/slog.
//
// The default logger writes text to stderr at Info level. Nop discards
// everything and is what library code falls back to when the caller does
// not pass a logger.
//
//	logger := logging.New(logging.Config{Level: logging.LevelDebug, Service: "spade"})
//	logger.Info("mining finished", "concepts", len(concepts))
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is the minimal severity a logger emits. Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel accepts debug, info, warn/warning and error in any case.
// The empty string is Info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Config configures New. The zero value logs Info+ as text to stderr.
type Config struct {
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	JSON   bool
	// Service, when set, is attached to every record as "service".
	Service string
}

// Logger is safe for concurrent use.
type Logger struct {
	slog *slog.Logger
}

func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}
	return &Logger{slog: slog.New(handler)}
}

func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "spade"})
}

// Nop returns a logger that discards every record.
func Nop() *Logger {
	return New(Config{Output: io.Discard, Level: LevelError})
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// Slog exposes the underlying *slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.slog }
