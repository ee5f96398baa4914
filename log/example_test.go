package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/resc/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithPretty(false))
	logger.Info("build complete", slog.Int("files", 3))
	// Output: level=INFO msg="build complete" files=3
}

func Example_json() {
	logger := log.Make(os.Stdout, log.WithFormat(log.FormatJSON))
	logger.Warn("stale output", slog.String("file", "r.go"))
	// Output: {"level":"WARN","msg":"stale output","file":"r.go"}
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn), log.WithPretty(false))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message")
	// Output: level=WARN msg="warning message"
}
