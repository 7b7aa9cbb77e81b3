package option

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/ardnew/envlet/log"
)

// Change describes a modification of an option value.
type Change struct {
	Name  string
	Scope Scope
	Op    Op
	Old   string
	New   string
}

// Store holds option definitions and their values. An option defined for
// both scopes has an independent value in each.
//
// A Store is not safe for concurrent use.
type Store struct {
	logger   log.Logger
	onChange []func(Change)
	defs     []*Option
	index    map[Scope]map[string]*Option
	abbr     map[Scope]map[string]*Option
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithLogger sets the logger used to report changes.
func WithLogger(logger log.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithChangeHandler registers fn to be called after every successful
// modification of an option value.
func WithChangeHandler(fn func(Change)) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.onChange = append(s.onChange, fn)
		}
	}
}

// New returns an empty Store.
func New(opts ...StoreOption) *Store {
	s := &Store{
		index: map[Scope]map[string]*Option{Global: {}, Local: {}},
		abbr:  map[Scope]map[string]*Option{Global: {}, Local: {}},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Define adds an option for each scope of d, initialized to its default.
func (s *Store) Define(d Definition) error {
	if !ValidName(d.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, d.Name)
	}

	if d.Abbr != "" && !ValidName(d.Abbr) {
		return fmt.Errorf("%w: abbreviation %q", ErrInvalidName, d.Abbr)
	}

	scopes := d.Scopes
	if len(scopes) == 0 {
		scopes = []Scope{Global}
	}

	created := make([]*Option, 0, len(scopes))

	for _, scope := range scopes {
		if _, ok := s.Find(d.Name, scope); ok {
			return fmt.Errorf("%w: %s %s", ErrDuplicate, scope, d.Name)
		}

		if _, ok := s.Find(d.Abbr, scope); d.Abbr != "" && ok {
			return fmt.Errorf("%w: %s %s", ErrDuplicate, scope, d.Abbr)
		}

		o := &Option{
			Name:  d.Name,
			Abbr:  d.Abbr,
			Type:  d.Type,
			Scope: scope,
			Items: d.Items,
			def:   d.defaultText(),
		}

		if err := o.Reset(); err != nil {
			return err
		}

		created = append(created, o)
	}

	for _, o := range created {
		s.defs = append(s.defs, o)
		s.index[o.Scope][o.Name] = o

		if o.Abbr != "" {
			s.abbr[o.Scope][o.Abbr] = o
		}
	}

	return nil
}

// Find returns the option of the given scope whose full name or
// abbreviation is name.
func (s *Store) Find(name string, scope Scope) (*Option, bool) {
	if o, ok := s.index[scope][name]; ok {
		return o, true
	}

	o, ok := s.abbr[scope][name]

	return o, ok
}

// All returns an iterator over every option in definition order.
func (s *Store) All() iter.Seq[*Option] {
	return func(yield func(*Option) bool) {
		for _, o := range s.defs {
			if !yield(o) {
				return
			}
		}
	}
}

// Names returns the full names of the options defined for scope, in
// definition order.
func (s *Store) Names(scope Scope) []string {
	var names []string

	for o := range s.All() {
		if o.Scope == scope {
			names = append(names, o.Name)
		}
	}

	return names
}

// Apply modifies the value of o with op and notifies change handlers.
func (s *Store) Apply(o *Option, op Op, text string) error {
	old := o.String()

	var err error

	switch op {
	case OpAdd:
		err = o.Add(text)
	case OpRemove:
		err = o.Remove(text)
	default:
		err = o.Set(text)
	}

	if err != nil {
		s.logger.Debug("option unchanged",
			slog.String("name", o.Name),
			slog.String("scope", o.Scope.String()),
			slog.String("op", op.String()),
			slog.Any("error", err))

		return err
	}

	c := Change{Name: o.Name, Scope: o.Scope, Op: op, Old: old, New: o.String()}

	s.logger.Debug("option changed",
		slog.String("name", c.Name),
		slog.String("scope", c.Scope.String()),
		slog.String("old", c.Old),
		slog.String("new", c.New))

	for _, fn := range s.onChange {
		fn(c)
	}

	return nil
}

// LookupOption returns the descriptor of the option of the given scope.
func (s *Store) LookupOption(name string, scope Scope) (Descriptor, bool) {
	o, ok := s.Find(name, scope)
	if !ok {
		return Descriptor{}, false
	}

	return o.Descriptor(), true
}

// ApplyOption applies op to the option identified by d.
func (s *Store) ApplyOption(d Descriptor, op Op, text string) error {
	o, ok := s.Find(d.Name, d.Scope)
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrUnknownOption, d.Scope, d.Name)
	}

	return s.Apply(o, op, text)
}

// OptionValue returns the current value of the option of the given scope
// (see [Option.Value]).
func (s *Store) OptionValue(name string, scope Scope) (any, bool) {
	o, ok := s.Find(name, scope)
	if !ok {
		return nil, false
	}

	return o.Value(), true
}

// NameAlphabet returns the character classes of option names: the first
// character is a letter, the rest are letters, digits, or underscores.
func (s *Store) NameAlphabet() (first, rest func(byte) bool) {
	return IsNameStart, IsNameChar
}

// IsNameStart reports whether c may begin an option name.
func IsNameStart(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// IsNameChar reports whether c may continue an option name.
func IsNameChar(c byte) bool {
	return IsNameStart(c) || ('0' <= c && c <= '9') || c == '_'
}

// ValidName reports whether name is a well-formed option name.
func ValidName(name string) bool {
	if name == "" || !IsNameStart(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if !IsNameChar(name[i]) {
			return false
		}
	}

	return true
}

// Reset restores every option to its default value without notifying
// change handlers.
func (s *Store) Reset(ctx context.Context) {
	for o := range s.All() {
		if err := o.Reset(); err != nil {
			s.logger.WarnContext(ctx, "option reset failed",
				slog.String("name", o.Name), slog.Any("error", err))
		}
	}
}
