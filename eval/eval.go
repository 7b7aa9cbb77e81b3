// Package eval evaluates the right-hand side of statements using
// expr-lang expressions.
//
// Before compilation, variable references are translated to builtin calls:
//
//	$NAME          env("NAME")
//	&name          option("name", "")
//	&g:name        option("name", "g")
//	&l:name        option("name", "l")
//
// An expression extends to the first unbalanced closing bracket. If it
// does not compile as a whole, the longest prefix ending before top-level
// whitespace that does compile is evaluated instead, and the rest is
// returned unconsumed.
package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/envlet/lang"
	"github.com/ardnew/envlet/log"
	"github.com/ardnew/envlet/option"
)

// OptionReader reads the value of an option.
type OptionReader interface {
	OptionValue(name string, scope option.Scope) (any, bool)
}

// Evaluator implements [lang.Evaluator].
type Evaluator struct {
	vars   lang.EnvReader
	opts   OptionReader
	logger log.Logger
	env    map[string]any
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithLogger sets the logger used to trace compilation.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithBuiltin adds (or replaces) a value or function visible to every
// expression under name.
func WithBuiltin(name string, value any) Option {
	return func(e *Evaluator) { e.env[name] = value }
}

// New returns an Evaluator that reads environment variables from vars and
// options from opts. A nil opts defines no options.
func New(vars lang.EnvReader, opts OptionReader, options ...Option) *Evaluator {
	e := &Evaluator{vars: vars, opts: opts}
	e.env = builtins(e.getenv, e.option)

	for _, opt := range options {
		opt(e)
	}

	return e
}

// Builtins returns the names visible to every expression.
func (e *Evaluator) Builtins() []string {
	names := make([]string, 0, len(e.env))
	for name := range e.env {
		names = append(names, name)
	}

	return names
}

// Builtin returns the builtin at path, a dot-separated member chain such
// as "mung.prefix".
func (e *Evaluator) Builtin(path string) (any, bool) {
	var cur any = e.env

	for seg := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}

	return cur, true
}

// Evaluate implements [lang.Evaluator].
func (e *Evaluator) Evaluate(text string) (any, string, error) {
	n, breaks, err := extent(text)
	if err != nil {
		return nil, text, err
	}

	if strings.TrimSpace(text[:n]) == "" {
		return nil, text, lang.ErrInvalidExpression.At(n, text[n:])
	}

	var first error

	for _, cut := range cuts(n, breaks) {
		program, err := e.compile(text[:cut])
		if err != nil {
			if first == nil {
				first = err
			}

			continue
		}

		out, err := vm.Run(program, e.env)
		if err != nil {
			return nil, text, lang.ErrEvaluate.Wrap(brief(err)).
				With(slog.String("source", text[:cut]))
		}

		return out, text[cut:], nil
	}

	return nil, text, first
}

func (e *Evaluator) compile(src string) (*vm.Program, error) {
	rewritten, err := rewrite(src)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(rewritten, expr.Env(e.env))
	if err != nil {
		e.logger.TraceContext(context.TODO(), "compile failed",
			slog.String("source", src),
			slog.String("rewritten", rewritten),
			slog.Any("error", err))

		return nil, lang.ErrInvalidExpression.Wrap(brief(err)).At(0, src)
	}

	return program, nil
}

func (e *Evaluator) getenv(name string) string {
	if e.vars == nil {
		return ""
	}

	return e.vars.Read(name)
}

// option reads an option of the given scope ("g", "l", or "" for the local
// copy if there is one, else the global one).
func (e *Evaluator) option(name, scope string) (any, error) {
	if e.opts != nil {
		switch scope {
		case "g":
			if v, ok := e.opts.OptionValue(name, option.Global); ok {
				return v, nil
			}
		case "l":
			if v, ok := e.opts.OptionValue(name, option.Local); ok {
				return v, nil
			}
		default:
			if v, ok := e.opts.OptionValue(name, option.Local); ok {
				return v, nil
			}

			if v, ok := e.opts.OptionValue(name, option.Global); ok {
				return v, nil
			}
		}
	}

	return nil, fmt.Errorf("unknown option: %s", name)
}

// brief drops the multi-line source excerpt expr-lang includes in its error
// messages.
func brief(err error) error {
	var fe *file.Error
	if errors.As(err, &fe) && fe.Message != "" {
		return errors.New(fe.Message)
	}

	return err
}
