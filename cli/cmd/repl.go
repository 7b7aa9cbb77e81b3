package cmd

import (
	"context"

	"github.com/ardnew/envlet/cli/cmd/repl"
	"github.com/ardnew/envlet/env"
)

// Repl starts an interactive statement shell.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, setup *Setup) (err error) {
	sess, err := setup.open(ctx, env.Process{})
	if err != nil {
		return err
	}

	defer func() {
		if cerr := sess.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return repl.Run(ctx, repl.Session{
		Engine:  sess.engine,
		Options: sess.opts,
		Eval:    sess.eval,
	}, kongVar(ctx, CacheIdentifier), sess.logger)
}
