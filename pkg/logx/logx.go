// Package logx is the process-wide logger used by services, handlers and
// commands. It is a thin facade over zap so call sites stay short.
package logx

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity that gets written
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger = newLogger("console")
)

func newLogger(format string) *zap.SugaredLogger {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
// Unknown values fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLevel changes the minimum level at runtime
func SetLevel(l Level) {
	level.SetLevel(zapcore.Level(l))
}

// Configure rebuilds the logger with the given level and output format
// ("json" or "console").
func Configure(levelName, format string) {
	SetLevel(ParseLevel(levelName))

	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = newLogger(format)
}

// SetLogger replaces the underlying zap logger. Used by tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Sync flushes buffered entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(args ...any)                 { current().Debug(args...) }
func Debugf(format string, args ...any) { current().Debugf(format, args...) }
func Info(args ...any)                  { current().Info(args...) }
func Infof(format string, args ...any)  { current().Infof(format, args...) }
func Warn(args ...any)                  { current().Warn(args...) }
func Warnf(format string, args ...any)  { current().Warnf(format, args...) }
func Error(args ...any)                 { current().Error(args...) }
func Errorf(format string, args ...any) { current().Errorf(format, args...) }
func Fatal(args ...any)                 { current().Fatal(args...) }
func Fatalf(format string, args ...any) { current().Fatalf(format, args...) }

// Infow logs a message with structured key/value pairs
func Infow(msg string, keysAndValues ...any) { current().Infow(msg, keysAndValues...) }

// Errorw logs an error message with structured key/value pairs
func Errorw(msg string, keysAndValues ...any) { current().Errorw(msg, keysAndValues...) }
