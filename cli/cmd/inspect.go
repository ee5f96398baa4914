package cmd

import (
	"context"
	"os"

	"github.com/ardnew/resc/cli/cmd/inspect"
	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/resource"
)

// Inspect explores the resolved resources in an interactive shell.
type Inspect struct{}

// Run executes the inspect command.
func (i *Inspect) Run(ctx context.Context) error {
	cacheDir := os.TempDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir := ktx.Model.Vars()[CacheIdentifier]; dir != "" {
			cacheDir = dir
		}
	}

	return inspect.Run(ctx, func(ctx context.Context) (*resource.Tree, error) {
		return load(ctx)
	}, cacheDir, log.Default())
}
