package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/envlet/env"
	"github.com/ardnew/envlet/eval"
	"github.com/ardnew/envlet/lang"
	"github.com/ardnew/envlet/log"
	"github.com/ardnew/envlet/option"
)

// FoldCaseIdentifier is the kong variable identifier containing the default
// of the --fold-case flag, which follows the platform.
const FoldCaseIdentifier = "foldCase"

// Setup holds the flags that configure the engine of every command.
type Setup struct {
	MaxVars     int    `default:"0"              help:"Limit the number of tracked environment variables (0 for no limit)."`
	MaxValueLen int    `default:"0"              help:"Limit the length of a variable value in bytes (0 for no limit)."`
	Options     string `                         help:"Load additional option definitions from a YAML file." placeholder:"FILE" type:"existingfile"`
	FoldCase    bool   `default:"${foldCase}"    help:"Compare variable names case-insensitively."           negatable:""`
}

// session is an engine bound to an environment.
type session struct {
	bridge env.Bridge
	vars   *lang.Registry
	opts   *option.Store
	eval   *eval.Evaluator
	engine *lang.Engine
	logger log.Logger
}

// open creates a session tracking the variables of bridge.
func (s *Setup) open(ctx context.Context, bridge env.Bridge) (*session, error) {
	logger := log.Default()

	opts := option.NewDefault(
		option.WithLogger(logger.With(slog.String("component", "option"))),
	)

	if s.Options != "" {
		f, err := os.Open(s.Options)
		if err != nil {
			return nil, ErrReadOptions.Wrap(err).With(slog.String("file", s.Options))
		}

		err = opts.Load(f)
		_ = f.Close()

		if err != nil {
			return nil, ErrReadOptions.Wrap(err).With(slog.String("file", s.Options))
		}
	}

	vars := lang.NewRegistry(
		lang.WithFoldCase(s.FoldCase),
		lang.WithMaxRecords(s.MaxVars),
		lang.WithMaxValueLen(s.MaxValueLen),
		lang.WithRegistryLogger(logger.With(slog.String("component", "registry"))),
	)

	n := vars.Bootstrap(ctx, bridge.Environ())

	ev := eval.New(vars, opts,
		eval.WithLogger(logger.With(slog.String("component", "eval"))))

	engine := lang.New(vars, bridge, opts, ev,
		lang.WithLogger(logger.With(slog.String("component", "engine"))))

	logger.DebugContext(ctx, "session opened",
		slog.Int("inherited", n),
		slog.Int("max_vars", s.MaxVars),
		slog.Int("max_value_len", s.MaxValueLen),
		slog.Bool("fold_case", s.FoldCase))

	return &session{
		bridge: bridge,
		vars:   vars,
		opts:   opts,
		eval:   ev,
		engine: engine,
		logger: logger,
	}, nil
}

// close restores the environment the session was opened with.
func (s *session) close(ctx context.Context) error {
	if err := s.vars.Teardown(ctx, s.bridge); err != nil {
		return ErrRestore.Wrap(err)
	}

	s.logger.DebugContext(ctx, "session closed")

	return nil
}
