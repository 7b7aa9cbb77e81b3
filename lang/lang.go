package lang

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/envlet/env"
	"github.com/ardnew/envlet/log"
	"github.com/ardnew/envlet/option"
)

// Evaluator evaluates the right-hand side of a statement.
type Evaluator interface {
	// Evaluate evaluates the expression at the start of text and returns
	// its value and the text following the expression.
	Evaluate(text string) (value any, rest string, err error)
}

// Options is the option store read and written by option statements.
type Options interface {
	LookupOption(name string, scope option.Scope) (option.Descriptor, bool)
	ApplyOption(d option.Descriptor, op option.Op, text string) error
	NameAlphabet() (first, rest func(byte) bool)
}

// EnvReader reads the value of an environment variable, returning the
// empty string for an unknown one.
type EnvReader interface {
	Read(name string) string
}

// Engine interprets let, unlet, and echo statements.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	vars   *Registry
	bridge env.Bridge
	opts   Options
	eval   Evaluator
	logger log.Logger
	alpha  alphabet
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger used to trace statements.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New returns an Engine that tracks environment variables in vars, mirrors
// them to bridge, reads and writes options in opts, and evaluates
// expressions with eval.
func New(
	vars *Registry,
	bridge env.Bridge,
	opts Options,
	eval Evaluator,
	options ...Option,
) *Engine {
	e := &Engine{vars: vars, bridge: bridge, opts: opts, eval: eval}

	for _, opt := range options {
		opt(e)
	}

	first, rest := opts.NameAlphabet()
	e.alpha = alphabet{first: first, rest: rest}

	return e
}

// Registry returns the registry of tracked environment variables.
func (e *Engine) Registry() *Registry { return e.vars }

// Let executes the let statement text (without the command word), e.g.
// `$PATH .= ':/opt/bin'` or `&l:tabstop += 2`.
func (e *Engine) Let(ctx context.Context, text string) error {
	stmt, err := parseStatement(text, e.alpha)
	if err != nil {
		e.logger.DebugContext(ctx, "let rejected", slog.Any("error", err))

		return err
	}

	value, err := e.evaluate(stmt.Expr, stmt.Offset)
	if err != nil {
		e.logger.DebugContext(ctx, "let rejected",
			slog.String("name", stmt.Name), slog.Any("error", err))

		return err
	}

	if !e.validate(stmt.Kind, stmt.Op, stmt.Name) {
		return ErrWrongType.With(
			slog.String("kind", stmt.Kind.String()),
			slog.String("name", stmt.Name),
			slog.String("op", stmt.Op.String()))
	}

	text = Stringify(value)

	e.logger.TraceContext(ctx, "let",
		slog.String("kind", stmt.Kind.String()),
		slog.String("name", stmt.Name),
		slog.String("op", stmt.Op.String()),
		slog.String("value", text))

	return e.execute(ctx, stmt.Kind, stmt.Op, stmt.Name, text)
}

// Echo evaluates every expression in text and returns their values
// separated by spaces.
func (e *Engine) Echo(ctx context.Context, text string) (string, error) {
	var (
		parts  []string
		offset int
	)

	for {
		trimmed := strings.TrimLeft(text, " \t\n\r\v\f")
		offset += len(text) - len(trimmed)
		text = trimmed

		if text == "" {
			break
		}

		value, rest, err := e.eval.Evaluate(text)
		if err != nil {
			return "", rebase(err, offset)
		}

		if len(rest) == len(text) {
			return "", ErrInvalidExpression.At(offset, text)
		}

		parts = append(parts, Stringify(value))
		offset += len(text) - len(rest)
		text = rest
	}

	e.logger.TraceContext(ctx, "echo", slog.Int("values", len(parts)))

	return strings.Join(parts, " "), nil
}

// evaluate evaluates expr, which begins at offset in the statement, and
// requires the expression to consume all of it but trailing whitespace.
func (e *Engine) evaluate(expr string, offset int) (any, error) {
	value, rest, err := e.eval.Evaluate(expr)
	if err != nil {
		return nil, rebase(err, offset)
	}

	if trailing := strings.TrimLeft(rest, " \t\n\r\v\f"); trailing != "" {
		return nil, ErrTrailingCharacters.At(offset+len(expr)-len(trailing), trailing)
	}

	return value, nil
}

// rebase shifts the offset of an evaluation error, which is relative to the
// expression, to be relative to the statement.
func rebase(err error, offset int) error {
	var ee *Error
	if !errors.As(err, &ee) {
		return ErrEvaluate.Wrap(err)
	}

	if at, ok := ee.Offset(); ok {
		return ee.At(offset+at, ee.near)
	}

	return ee
}
