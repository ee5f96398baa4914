package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/resc/resource"
)

// Dump prints the resolved resource tree in declaration order.
type Dump struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})" short:"f"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	t, err := load(ctx)
	if err != nil {
		return err
	}

	if err := resource.Dump(stdout(ctx), t, resource.DumpFormat(d.Format)); err != nil {
		return ErrDump.With(slog.String("format", d.Format)).Wrap(err)
	}

	return nil
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}
