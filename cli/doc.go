// Package cli contains the command line interface for resc.
//
// # Usage
//
//	resc [flags] [build|check|dump|inspect|init]
//
// Build is the default command. Sources are discovered below every --root,
// then below each entry of RESC_PATH, and finally below --test-root when
// --tests is set:
//
//	resc -r res -o internal/r --import-path example.com/app/internal/r
//	resc check -r res --profile=release
//	resc dump -r res -f json
//
// # Configuration
//
// Flag values not given on the command line are read from:
//
//   - resc.yaml in the user config directory
//   - resc.yaml in the working directory
//   - config.json in the user config directory
//
// YAML keys name flags, either flat ("log-level: debug") or nested
// ("log: {level: debug}"); underscores may replace hyphens. "resc init"
// writes the current flag values to the user config file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o resc .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory. Each command writes to a
//     subdirectory named for it, e.g. <dir>/build/cpu.pprof.
package cli
