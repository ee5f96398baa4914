package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/resource"
	"github.com/ardnew/resc/source"
)

// Build compiles the selected sources and writes one Go package per
// namespace, plus the flat alias package, below Out.
type Build struct {
	Out        string `default:"r" help:"Output directory or URL"                                       placeholder:"DIR" short:"o"`
	Package    string `default:"r" help:"Package name of the root namespace"`
	ImportPath string `help:"Import path of the output directory (used by the flat package)" placeholder:"PATH"`
	Check      bool   `help:"Fail if any generated file would change; write nothing"`
}

// Run executes the build command.
func (b *Build) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := discover(ctx)
	if err != nil {
		return err
	}

	res, err := resource.Compile(ctx, srcs, sourcesFrom(ctx).options(
		resource.WithPackage(b.Package),
		resource.WithImportPath(b.ImportPath),
	)...)
	if err != nil {
		return report(ctx, err)
	}

	rep, err := serviceFrom(ctx).Publish(ctx, b.Out, res.Output, b.Check)
	if errors.Is(err, source.ErrStale) {
		for _, file := range rep.Stale {
			log.WarnContext(ctx, "stale output", slog.String("file", file))
		}

		return ErrStale.With(slog.Int("files", len(rep.Stale)))
	}

	if err != nil {
		return err
	}

	log.InfoContext(ctx, "build complete",
		slog.String("out", b.Out),
		slog.Int("written", len(rep.Written)),
		slog.Int("unchanged", len(rep.Unchanged)),
		slog.String("digest", fmt.Sprintf("xxh3:%016x", res.Digest)),
	)

	return nil
}
