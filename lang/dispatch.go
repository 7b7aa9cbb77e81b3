package lang

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/envlet/option"
)

// validate reports whether op may be applied to the variable of the given
// kind and name.
//
// Options are classified by their global definition only; an option with
// none passes, leaving the failure to execute.
func (e *Engine) validate(kind VarKind, op Operator, name string) bool {
	if kind == EnvVar {
		return op == Assign || op == Append
	}

	d, ok := e.opts.LookupOption(name, option.Global)
	if !ok {
		return true
	}

	switch d.Class() {
	case option.ClassBool:
		return false
	case option.ClassString:
		return op == Assign || op == Append
	default:
		return op == Assign || op == Add || op == Subtract
	}
}

// execute applies op with value to the variable of the given kind and name.
func (e *Engine) execute(
	ctx context.Context,
	kind VarKind,
	op Operator,
	name, value string,
) error {
	switch kind {
	case EnvVar:
		return e.setEnv(ctx, op, name, value)

	case LocalOption:
		return e.applyOption(ctx, option.Local, op, name, value, false)

	case GlobalOption:
		return e.applyOption(ctx, option.Global, op, name, value, false)

	default:
		// The local copy is optional, the global one is not.
		if err := e.applyOption(ctx, option.Local, op, name, value, true); err != nil {
			return err
		}

		return e.applyOption(ctx, option.Global, op, name, value, false)
	}
}

func (e *Engine) setEnv(ctx context.Context, op Operator, name, value string) error {
	var (
		rec *Record
		err error
	)

	if op == Append {
		rec, err = e.vars.Append(name, value)
	} else {
		rec, err = e.vars.Assign(name, value)
	}

	if err != nil {
		return err
	}

	if err := e.bridge.Set(rec.Name, rec.Value); err != nil {
		e.logger.WarnContext(ctx, "environment not updated",
			slog.String("name", rec.Name), slog.Any("error", err))
	}

	return nil
}

func (e *Engine) applyOption(
	ctx context.Context,
	scope option.Scope,
	op Operator,
	name, value string,
	optional bool,
) error {
	d, ok := e.opts.LookupOption(name, scope)
	if !ok {
		if optional {
			return nil
		}

		return ErrUnknownOption.Wrap(errors.New(scope.String() + " " + name))
	}

	mod := option.OpSet

	switch op {
	case Add, Append:
		mod = option.OpAdd
	case Subtract:
		mod = option.OpRemove
	}

	if err := e.opts.ApplyOption(d, mod, value); err != nil {
		return ErrApplyOption.Wrap(err).With(
			slog.String("name", d.Name),
			slog.String("scope", scope.String()))
	}

	e.logger.TraceContext(ctx, "option applied",
		slog.String("name", d.Name),
		slog.String("scope", scope.String()),
		slog.String("op", mod.String()))

	return nil
}
