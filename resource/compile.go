package resource

import (
	"context"
	"log/slog"
	"time"
)

// Stage names one step of the compile pipeline.
type Stage string

const (
	StageParse     Stage = "parse"
	StageResolve   Stage = "resolve"
	StageTemplates Stage = "templates"
	StageEmit      Stage = "emit"
)

// Result is the outcome of a successful [Compile].
type Result struct {
	Tree   *Tree
	Output Output
	Digest uint64
}

// StageError reports which stage of [Compile] failed. The diagnostics are
// available through errors.Is and errors.As on the wrapped [ErrorList].
type StageError struct {
	Err   error
	Stage Stage
}

func (e *StageError) Error() string { return string(e.Stage) + ": " + e.Err.Error() }

// Unwrap returns the diagnostics of the failed stage.
func (e *StageError) Unwrap() error { return e.Err }

// Compile runs the whole pipeline over srcs: every source is parsed into one
// tree, references are resolved, templates are compiled and the tree is
// emitted. Each stage reports all of its diagnostics before the pipeline
// stops.
func Compile(ctx context.Context, srcs []Source, opts ...Option) (*Result, error) {
	o := makeOptions(opts...)

	t, err := Build(ctx, srcs, opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	out, err := Emit(ctx, t, opts...)
	if err != nil {
		return nil, &StageError{Stage: StageEmit, Err: err}
	}

	o.logger.DebugContext(ctx, "compile complete",
		slog.Int("declarations", t.Len()),
		slog.Int("files", len(out)),
		slog.Duration("emit", time.Since(start)),
	)

	return &Result{Tree: t, Output: out, Digest: Digest(t)}, nil
}

// Build runs every stage of [Compile] except emission and returns the
// resolved tree. It is the whole of a check-only run.
func Build(ctx context.Context, srcs []Source, opts ...Option) (*Tree, error) {
	o := makeOptions(opts...)
	t := NewTree()

	var errs ErrorList

	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		errs.add(Parse(ctx, t, src, opts...))
	}

	if len(errs) > 0 {
		return nil, &StageError{Stage: StageParse, Err: errs}
	}

	stages := []struct {
		run   func(context.Context, *Tree, ...Option) error
		stage Stage
	}{
		{Resolve, StageResolve},
		{CompileTemplates, StageTemplates},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := s.run(ctx, t, opts...); err != nil {
			return nil, &StageError{Stage: s.stage, Err: err}
		}
	}

	o.logger.TraceContext(ctx, "build complete",
		slog.Int("sources", len(srcs)),
		slog.Int("declarations", t.Len()),
	)

	return t, nil
}
