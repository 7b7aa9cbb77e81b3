package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Category classifies the errors reported by the engine.
type Category int

const (
	CategoryNone Category = iota
	// CategoryParse covers malformed statements and expressions.
	CategoryParse
	// CategoryType covers operators not applicable to their target.
	CategoryType
	// CategoryUnknownOption covers references to undefined options.
	CategoryUnknownOption
	// CategoryAllocation covers exhausted variable storage.
	CategoryAllocation
	// CategoryNotFound covers references to undefined variables.
	CategoryNotFound
)

func (c Category) String() string {
	switch c {
	case CategoryParse:
		return "parse"
	case CategoryType:
		return "type"
	case CategoryUnknownOption:
		return "unknown option"
	case CategoryAllocation:
		return "allocation"
	case CategoryNotFound:
		return "not found"
	default:
		return "none"
	}
}

// Predefined errors (sentinel values).
var (
	ErrUnknownCommand       = newError(CategoryParse, "not an editor command")
	ErrUnsupportedKind      = newError(CategoryParse, "incorrect variable type")
	ErrInvalidName          = newError(CategoryParse, "incorrect variable name")
	ErrEmptyName            = newError(CategoryParse, "unsupported variable name: empty name")
	ErrMissingEquals        = newError(CategoryParse, "incorrect :let statement: '=' expected")
	ErrTrailingCharacters   = newError(CategoryParse, "trailing characters")
	ErrInvalidExpression    = newError(CategoryParse, "invalid expression")
	ErrInvalidSubexpression = newError(CategoryParse, "invalid subexpression")
	ErrMissingQuote         = newError(CategoryParse, "invalid expression (missing quote)")
	ErrEvaluate             = newError(CategoryParse, "expression evaluation failed")
	ErrWrongType            = newError(CategoryType, "wrong variable type for this operation")
	ErrApplyOption          = newError(CategoryType, "cannot apply option value")
	ErrUnknownOption        = newError(CategoryUnknownOption, "unknown option name")
	ErrAllocation           = newError(CategoryAllocation, "variable storage exhausted")
	ErrNotFound             = newError(CategoryNotFound, "no such variable")
)

// Error represents an engine error with optional structured logging
// attributes. It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with [Error.Wrap], [Error.With], or
// [Error.At] match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	cat   Category
	base  *Error
	at    *int
	near  string
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func newError(cat Category, msg string) *Error {
	return &Error{msg: msg, cat: cat}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface. The message has the form
//
//	<msg> at "<near>": <err>
//
// where each part is omitted when unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.at != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		if e.near == "" {
			sb.WriteString("at end of input")
		} else {
			sb.WriteString("at " + strconv.Quote(e.near))
		}
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.root() == t.root()
}

// Category returns the category of the sentinel e was derived from.
func (e *Error) Category() Category { return e.root().cat }

// Offset returns the byte offset into the statement where the error was
// detected, if known.
func (e *Error) Offset() (int, bool) {
	if e.at == nil {
		return 0, false
	}

	return *e.at, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if c := e.Category(); c != CategoryNone {
		attrs = append(attrs, slog.String("category", c.String()))
	}

	if e.at != nil {
		attrs = append(attrs, slog.Int("offset", *e.at))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// At records the offset at which the error was detected and the text that
// remained unconsumed there.
func (e *Error) At(offset int, near string) *Error {
	c := e.derive()
	c.at = &offset
	c.near = near

	return c
}

func (e *Error) derive() *Error {
	c := *e
	c.base = e.root()
	c.attrs = append([]slog.Attr(nil), e.attrs...)

	return &c
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// CategoryOf returns the category of the first [Error] in the chain of err.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category()
	}

	return CategoryNone
}
