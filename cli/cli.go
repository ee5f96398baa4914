package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/resc/cli/cmd"
	"github.com/ardnew/resc/pkg"
)

// CLI is the top-level command-line interface for resc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Sources `embed:""`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Build   cmd.Build   `cmd:"" default:"withargs" help:"Compile resources into Go packages"`
	Check   cmd.Check   `cmd:""                    help:"Compile resources and report diagnostics without writing"`
	Dump    cmd.Dump    `cmd:""                    help:"Print the resolved resource tree"`
	Inspect cmd.Inspect `cmd:""                    help:"Explore resolved resources interactively"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// vars are the interpolation variables of every struct tag in [CLI].
func (c *CLI) vars() kong.Vars {
	return kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configPath(localConfig),
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(c.Log.vars()).
		CloneWith(c.Pprof.vars())
}

// options configures the parser. Flags may also be set from a JSON config
// file or from the YAML file written by "resc init".
func (c *CLI) options(ctx *context.Context, exit func(int)) []kong.Option {
	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		// Commands receive the context as it is when they run, including the
		// values attached after parsing.
		kong.BindSingletonProvider(func() context.Context { return *ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, configPath(localConfig), localConfig),
		c.vars(),
	}
}

// Run parses args and executes the selected resc command. The exit function
// is called by the parser for --help, --version and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags apply before parsing so that parse errors honor them
	// wherever they appear on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(&ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSources(ctx, cli.Sources)

	cli.Log.start(ctx)

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx, ktx.Command())()

	return ktx.Run(ctx)
}
