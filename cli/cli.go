package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/envlet/cli/cmd"
	"github.com/ardnew/envlet/env"
	"github.com/ardnew/envlet/pkg"
)

// CLI is the top-level command-line interface for envlet.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"    prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof"  prefix:"pprof-"`
	Setup cmd.Setup   `embed:"" group:"engine"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Repl     cmd.Repl     `cmd:"" default:"1" help:"Start an interactive statement shell."`
	Run      cmd.Script   `cmd:""             help:"Execute statements, then print the environment or run a command in it."`
	Complete cmd.Complete `cmd:""             help:"Print completion candidates for a statement line."`
	Init     cmd.Init     `cmd:""             help:"Initialize configuration file."`
}

// Run executes the envlet CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	yamlPath := configPath(baseConfig + ".yaml")
	jsonPath := configPath(baseConfig + ".json")

	vars := kong.Vars{
		cmd.ConfigIdentifier:   yamlPath,
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.FoldCaseIdentifier: strconv.FormatBool(env.FoldCase),
		"version":              pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that parse errors are logged as
	// requested, wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{
			cli.Log.group(), cli.Pprof.group(), engineGroup(),
		}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.DefaultEnvars(pkg.EnvPrefix()),
		kong.Configuration(kong.JSON, jsonPath),
		kong.Configuration(loadYAML, yamlPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The context provider above returns ctx when a command runs, so the
	// parsed kong.Context is visible to commands.
	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli.Setup)
}

func engineGroup() kong.Group {
	return kong.Group{Key: "engine", Title: "Engine options"}
}
