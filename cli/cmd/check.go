package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/resource"
)

// Check runs the whole pipeline and reports diagnostics without writing.
type Check struct{}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	srcs, err := discover(ctx)
	if err != nil {
		return err
	}

	res, err := resource.Compile(ctx, srcs, sourcesFrom(ctx).options()...)
	if err != nil {
		return report(ctx, err)
	}

	log.InfoContext(ctx, "check passed",
		slog.Int("sources", len(srcs)),
		slog.Int("declarations", res.Tree.Len()),
		slog.Int("files", len(res.Output)),
		slog.String("digest", fmt.Sprintf("xxh3:%016x", res.Digest)),
	)

	return nil
}
