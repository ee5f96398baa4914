//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/profile"
)

// pprofConfig profiles one command run. Output goes to a subdirectory of
// Dir named for the command, so profiles of build and check never
// overwrite each other.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the command (${enum})" placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"       type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling options"}
}

// start begins profiling command when a mode is selected and returns the
// function that stops it.
func (f pprofConfig) start(ctx context.Context, command string) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	dir := f.Dir
	if name, _, _ := strings.Cut(command, " "); name != "" {
		dir = filepath.Join(dir, name)
	}

	attrs := []slog.Attr{
		slog.String("mode", f.Mode),
		slog.String("command", command),
		slog.String("dir", dir),
	}

	log.DebugContext(ctx, "profiling started", attrs...)

	p := profile.Profiler{Mode: f.Mode, Path: dir, Quiet: true}.Start()

	return func() {
		p.Stop()
		log.InfoContext(ctx, "profile written", attrs...)
	}
}
