package source

import (
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"

	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/resource"
)

// Ext is the file extension of declaration documents.
const Ext = ".xml"

// Service reads and writes through an afs storage service.
type Service struct {
	fs     afs.Service
	logger log.Logger
}

// Option configures a [Service].
type Option func(*Service)

// WithLogger sets the logger of a [Service].
func WithLogger(logger log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New returns a Service backed by fs, or by afs.New() when fs is nil.
func New(fs afs.Service, opts ...Option) *Service {
	if fs == nil {
		fs = afs.New()
	}

	s := &Service{fs: fs}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Config selects the roots searched by [Service.Discover].
type Config struct {
	// Roots are searched in order.
	Roots []string
	// TestRoot is searched after Roots, only when Tests is set. Its files
	// are never read through Roots, even when it lies below one of them.
	TestRoot string
	Tests    bool
}

// testRoot returns the normalized test root, or "" when none is set.
func (c Config) testRoot() string {
	if c.TestRoot == "" {
		return ""
	}

	return Normalize(c.TestRoot)
}

// roots returns the enabled roots as normalized URLs.
func (c Config) roots() []string {
	roots := make([]string, 0, len(c.Roots)+1)
	for _, r := range c.Roots {
		roots = append(roots, Normalize(r))
	}

	if tr := c.testRoot(); c.Tests && tr != "" {
		roots = append(roots, tr)
	}

	return roots
}

// Discover reads every declaration document below the enabled roots. Files
// of one root are returned in URL order; roots keep their configured order.
func (s *Service) Discover(ctx context.Context, cfg Config) ([]resource.Source, error) {
	var srcs []resource.Source

	testRoot := cfg.testRoot()

	for _, root := range cfg.roots() {
		exclude := testRoot
		if root == testRoot {
			exclude = ""
		}

		urls, err := s.list(ctx, root, exclude)
		if err != nil {
			return nil, err
		}

		for _, u := range urls {
			src, err := s.read(ctx, u)
			if err != nil {
				return nil, err
			}

			srcs = append(srcs, src)
		}

		s.logger.DebugContext(ctx, "discovered sources",
			slog.String("root", root),
			slog.Int("count", len(urls)),
		)
	}

	return srcs, nil
}

// list returns the declaration documents below root, skipping everything
// below exclude when it is set.
func (s *Service) list(ctx context.Context, root, exclude string) ([]string, error) {
	ok, err := s.fs.Exists(ctx, root)
	if err != nil {
		return nil, ErrRootNotFound.Wrap(err).With(slog.String("root", root))
	}

	if !ok {
		return nil, ErrRootNotFound.Wrapf(root).With(slog.String("root", root))
	}

	objects, err := s.fs.List(ctx, root, option.NewRecursive(true))
	if err != nil {
		return nil, ErrList.Wrap(err).With(slog.String("root", root))
	}

	var urls []string

	for _, o := range objects {
		if !isSource(o) || within(o.URL(), exclude) {
			continue
		}

		urls = append(urls, o.URL())
	}

	slices.Sort(urls)

	return slices.Compact(urls), nil
}

// within reports whether u lies below the directory URL dir.
func within(u, dir string) bool {
	return dir != "" && strings.HasPrefix(u, dir+"/")
}

func isSource(o storage.Object) bool {
	return !o.IsDir() && strings.EqualFold(path.Ext(o.Name()), Ext) &&
		!strings.HasPrefix(o.Name(), ".")
}

func (s *Service) read(ctx context.Context, u string) (resource.Source, error) {
	r, err := s.fs.OpenURL(ctx, u)
	if err != nil {
		return resource.Source{}, resource.ErrReadInput.Wrap(err).
			With(slog.String("source", u))
	}

	defer r.Close()

	return resource.ReadSource(strings.TrimPrefix(u, "file://"), r)
}
