package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ardnew/envlet/env"
	"github.com/ardnew/envlet/lang"
)

// Complete prints the completion candidates for the last word of a
// statement line, one per line. Each candidate replaces the line from the
// offset printed with --offset; the last one restores the line as typed.
type Complete struct {
	Line   string `arg:"" help:"Statement line to complete, e.g. 'let $PA'."`
	Offset bool   `help:"Print the byte offset in the line where candidates apply first."`

	out    io.Writer  `kong:"-"`
	bridge env.Bridge `kong:"-"`
}

// Run executes the complete command.
func (c *Complete) Run(ctx context.Context, setup *Setup) (err error) {
	if c.out == nil {
		c.out = os.Stdout
	}

	if c.bridge == nil {
		c.bridge = env.Process{}
	}

	sess, err := setup.open(ctx, c.bridge)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := sess.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var comp lang.Completions

	start := sess.engine.Complete(c.Line, &comp)

	if c.Offset {
		fmt.Fprintln(c.out, start)
	}

	for _, item := range comp.Candidates {
		fmt.Fprintln(c.out, item)
	}

	// Candidates replace the line from start, so the fallback is printed
	// as the text it restores there.
	if comp.HasFallback {
		fmt.Fprintln(c.out, c.Line[start:])
	}

	return nil
}
