package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/resource"
	"github.com/ardnew/resc/source"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Sources selects the declaration documents every command compiles.
type Sources struct {
	Roots    []string `help:"Source root directory or URL (repeatable, searched before RESC_PATH)" name:"root" placeholder:"DIR" short:"r"`
	TestRoot string   `help:"Root of test-only sources"                                           name:"test-root" placeholder:"DIR"`
	Tests    bool     `help:"Enable test-only sources"                                           negatable:""`
	Profile  string   `help:"Active build profile"                                               short:"P"`
}

// DefaultRoot is searched when neither flags nor the environment name a root.
const DefaultRoot = "."

type sourcesKey struct{}

// WithSources returns a new context.Context carrying the source selection.
func WithSources(ctx context.Context, s Sources) context.Context {
	return context.WithValue(ctx, sourcesKey{}, s)
}

func sourcesFrom(ctx context.Context) Sources {
	s, _ := ctx.Value(sourcesKey{}).(Sources)

	return s
}

type serviceKey struct{}

// WithService returns a new context.Context whose commands read and write
// through svc instead of the local file system.
func WithService(ctx context.Context, svc *source.Service) context.Context {
	return context.WithValue(ctx, serviceKey{}, svc)
}

func serviceFrom(ctx context.Context) *source.Service {
	if svc, ok := ctx.Value(serviceKey{}).(*source.Service); ok && svc != nil {
		return svc
	}

	return source.New(nil, source.WithLogger(log.Default()))
}

// config returns the discovery configuration, consulting getenv for
// RESC_PATH.
func (s Sources) config(getenv func(string) string) source.Config {
	roots := source.Roots(s.Roots, getenv(source.EnvPath))
	if len(roots) == 0 {
		roots = []string{DefaultRoot}
	}

	return source.Config{Roots: roots, TestRoot: s.TestRoot, Tests: s.Tests}
}

// options returns the compile options shared by all commands.
func (s Sources) options(extra ...resource.Option) []resource.Option {
	return append([]resource.Option{
		resource.WithLogger(log.Default()),
		resource.WithProfile(s.Profile),
		resource.WithTests(s.Tests),
	}, extra...)
}

// load discovers the selected sources and builds the resolved tree.
func load(ctx context.Context, extra ...resource.Option) (*resource.Tree, error) {
	srcs, err := discover(ctx)
	if err != nil {
		return nil, err
	}

	t, err := resource.Build(ctx, srcs, sourcesFrom(ctx).options(extra...)...)
	if err != nil {
		return nil, report(ctx, err)
	}

	return t, nil
}

func discover(ctx context.Context) ([]resource.Source, error) {
	cfg := sourcesFrom(ctx).config(os.Getenv)

	srcs, err := serviceFrom(ctx).Discover(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if len(srcs) == 0 {
		return nil, ErrNoSources.With(slog.Any("roots", cfg.Roots))
	}

	return srcs, nil
}

// report logs each diagnostic of a failed pipeline stage and returns a
// summary error. Other errors are returned unchanged.
func report(ctx context.Context, err error) error {
	var stage *resource.StageError
	if !errors.As(err, &stage) {
		return err
	}

	var list resource.ErrorList
	if !errors.As(stage.Err, &list) {
		return err
	}

	for _, diag := range list {
		log.ErrorContext(ctx, string(stage.Stage)+" failed", slog.Any("error", diag))
	}

	return ErrCompile.With(
		slog.String("stage", string(stage.Stage)),
		slog.Int("diagnostics", len(list)),
	)
}
