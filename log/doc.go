// Package log is the structured logger used throughout resc. It wraps
// [log/slog] with a trace level, functional options and a styled text
// handler for terminals.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("build complete", slog.Int("files", 3))
//
// Compiler diagnostics implement [slog.LogValuer], so logging one with
// slog.Any expands its position, path and cause as grouped attributes:
//
//	logger.Error("compile failed", slog.Any("error", err))
//
// The package-level functions log through a default logger configured
// with [Config].
package log
