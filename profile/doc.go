// Package profile runs [github.com/pkg/profile] around a resc command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	resc --pprof-mode cpu --pprof-dir ./profiles build
//	go tool pprof ./profiles/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
