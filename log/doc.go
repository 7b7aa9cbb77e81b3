// Package log provides leveled structured logging on top of [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithPretty(true),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Debug("assigned", slog.String("name", "HOME"))
//
// Each level has a context-aware variant (e.g., [Logger.DebugContext]); the
// context-unaware variants use [DefaultContextProvider].
//
// Besides the standard slog levels the package defines [LevelTrace], used for
// per-step tracing of statement evaluation.
//
// The zero Logger discards all records. The process-wide default logger is
// reconfigured with [Config] and used by the package-level functions.
package log
