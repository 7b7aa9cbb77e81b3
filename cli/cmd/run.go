package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/ardnew/envlet/env"
	"github.com/ardnew/envlet/lang"
)

// Script executes statements and reports the resulting environment, or runs
// a command in it. Statement files run first, in the order given, then the
// statements given with -e.
type Script struct {
	Statement []string `help:"Statement to execute after all files, e.g. 'let $PATH .= \":/opt/bin\"' (repeatable)." placeholder:"STMT" sep:"none" short:"e"`
	File      []string `help:"Read statements from file(s) or '-' for stdin, before any -e statement."         placeholder:"FILE"           short:"f" type:"existingfile"`
	Format    string   `default:"env" enum:"env,sh,json,yaml,none" help:"Output format of the resulting environment." short:"o"`
	Changed   bool     `help:"Report only variables that differ from the inherited environment."`
	KeepGoing bool     `help:"Continue after a failed statement." short:"k"`

	Command []string `arg:"" help:"Command to run with the resulting environment." optional:"" passthrough:""`

	out    io.Writer  `kong:"-"`
	diag   io.Writer  `kong:"-"`
	bridge env.Bridge `kong:"-"`
}

// Run executes the run command.
func (s *Script) Run(ctx context.Context, setup *Setup) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s.defaults()

	sess, err := setup.open(ctx, s.bridge)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := sess.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	scripts, closeScripts, err := openScripts(s.File)
	if err != nil {
		return err
	}

	defer closeScripts()

	failed := 0

	for _, sc := range scripts {
		n, err := s.execReader(ctx, sess, sc)
		failed += n

		if err != nil {
			return err
		}
	}

	for i, stmt := range s.Statement {
		n, err := s.exec(ctx, sess, "-e "+strconv.Itoa(i+1), stmt)
		failed += n

		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return ErrStatement.With(slog.Int("failed", failed))
	}

	if len(s.Command) > 0 {
		return s.run(ctx, sess)
	}

	return writeEntries(s.out, s.Format, entries(sess.vars, s.Changed))
}

func (s *Script) defaults() {
	if s.out == nil {
		s.out = os.Stdout
	}

	if s.diag == nil {
		s.diag = os.Stderr
	}

	if s.bridge == nil {
		s.bridge = env.Process{}
	}
}

func (s *Script) execReader(ctx context.Context, sess *session, sc script) (int, error) {
	failed := 0
	line := 0

	scanner := bufio.NewScanner(sc.r)
	for scanner.Scan() {
		line++

		n, err := s.exec(ctx, sess, sc.name+":"+strconv.Itoa(line), scanner.Text())
		failed += n

		if err != nil {
			return failed, err
		}
	}

	if err := scanner.Err(); err != nil {
		return failed, ErrReadScript.Wrap(err).With(slog.String("file", sc.name))
	}

	return failed, nil
}

// exec executes one statement line, writing echo output and diagnostics.
// It returns the number of failures and, unless KeepGoing is set, an error
// for the first one.
func (s *Script) exec(ctx context.Context, sess *session, where, line string) (int, error) {
	out, err := sess.engine.Execute(ctx, line)
	if err == nil {
		if out != "" {
			fmt.Fprintln(s.out, out)
		}

		return 0, nil
	}

	var diags lang.Lines

	n := lang.Report(&diags, err)
	for _, d := range diags {
		fmt.Fprintf(s.diag, "%s: %s\n", where, d)
	}

	sess.logger.DebugContext(ctx, "statement failed",
		slog.String("at", where), slog.Any("error", err))

	if s.KeepGoing {
		return n, nil
	}

	return n, ErrStatement.Wrap(err).With(slog.String("at", where))
}

// run runs the command in the environment of the session.
func (s *Script) run(ctx context.Context, sess *session) error {
	c := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	c.Env = sess.vars.Environ()
	c.Stdin = os.Stdin
	c.Stdout = s.out
	c.Stderr = s.diag

	sess.logger.DebugContext(ctx, "exec",
		slog.String("command", s.Command[0]),
		slog.Int("args", len(s.Command)-1),
		slog.Int("env", len(c.Env)))

	if err := c.Run(); err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return ErrExec.Wrap(err).With(slog.Int("exit_code", exit.ExitCode()))
		}

		return ErrExec.Wrap(err)
	}

	return nil
}
