package log

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"
)

// DefaultContextProvider returns the context used by the logging functions
// and methods that do not accept one.
//
//nolint:gochecknoglobals
var DefaultContextProvider = context.TODO

//nolint:gochecknoglobals
var (
	defaultMu  sync.RWMutex
	defaultLog = Make(os.Stderr)
)

// Config reconfigures the process-wide default logger.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// Default returns the process-wide default logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog
}

// With returns the default logger with attrs added to each record.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// Trace logs at [LevelTrace] using the default logger.
func Trace(msg string, attrs ...slog.Attr) { logDefault(LevelTrace, msg, attrs) }

// Debug logs at [LevelDebug] using the default logger.
func Debug(msg string, attrs ...slog.Attr) { logDefault(LevelDebug, msg, attrs) }

// Info logs at [LevelInfo] using the default logger.
func Info(msg string, attrs ...slog.Attr) { logDefault(LevelInfo, msg, attrs) }

// Warn logs at [LevelWarn] using the default logger.
func Warn(msg string, attrs ...slog.Attr) { logDefault(LevelWarn, msg, attrs) }

// Error logs at [LevelError] using the default logger.
func Error(msg string, attrs ...slog.Attr) { logDefault(LevelError, msg, attrs) }

func logDefault(level Level, msg string, attrs []slog.Attr) {
	l := Default()
	ctx := DefaultContextProvider()

	if l.Logger == nil || !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	// runtime.Callers, logDefault, package-level function
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
