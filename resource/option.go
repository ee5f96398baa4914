package resource

import (
	"os"
	"runtime"

	"github.com/ardnew/resc/log"
)

// DefaultPackage is the package name of the root namespace.
const DefaultPackage = "r"

// Option configures parsing, compilation and emission.
type Option func(*options)

type options struct {
	logger     log.Logger
	getenv     func(string) string
	profile    string
	goos       string
	goarch     string
	pkgName    string
	importPath string
	tests      bool
}

func makeOptions(opts ...Option) options {
	o := options{
		getenv:  os.Getenv,
		goos:    runtime.GOOS,
		goarch:  runtime.GOARCH,
		pkgName: DefaultPackage,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithProfile selects the active build profile. Elements carrying a
// profile attribute are kept only when it names the active profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithTests reports to conditions whether test-only sources are enabled.
func WithTests(enable bool) Option {
	return func(o *options) { o.tests = enable }
}

// WithGetenv replaces the environment lookup used by the env() function of
// conditions. The default is [os.Getenv].
func WithGetenv(getenv func(string) string) Option {
	return func(o *options) {
		if getenv != nil {
			o.getenv = getenv
		}
	}
}

// WithPlatform overrides the goos and goarch seen by conditions.
func WithPlatform(goos, goarch string) Option {
	return func(o *options) { o.goos, o.goarch = goos, goarch }
}

// WithPackage sets the package name of the root namespace.
func WithPackage(name string) Option {
	return func(o *options) {
		if name != "" {
			o.pkgName = name
		}
	}
}

// WithImportPath sets the import path of the root package. Namespace
// packages are imported from sub-paths of it.
func WithImportPath(path string) Option {
	return func(o *options) { o.importPath = path }
}
