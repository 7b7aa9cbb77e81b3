package lang

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/envlet/env"
	"github.com/ardnew/envlet/log"
	"github.com/ardnew/envlet/pkg"
)

// Record tracks one environment variable touched by the engine.
type Record struct {
	Name    string
	Value   string
	Initial string
	// Inherited is set at bootstrap for variables present in the
	// environment the process started with, and never changes afterwards.
	Inherited bool
	// Removed marks an inherited variable that has been unset. Its record
	// is kept so the initial value can be restored at teardown.
	Removed bool
}

// Live reports whether r holds a value visible to reads.
func (r *Record) Live() bool { return r != nil && !r.Removed }

// Registry is the set of environment variables tracked by the engine.
//
// Records are kept in slots. Erasing a record frees its slot, and the
// first free slot is reused by the next record created, so iteration order
// is insertion order except where slots have been recycled.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	logger     log.Logger
	slots      []*Record
	free       int
	fold       bool
	maxRecords int
	maxValue   int

	// shadowed holds inherited entries whose names match an earlier
	// entry only under case folding. They are restored at teardown.
	shadowed []string
}

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// WithFoldCase overrides the platform rule for comparing variable names.
func WithFoldCase(fold bool) RegistryOption {
	return func(r *Registry) { r.fold = fold }
}

// WithMaxRecords limits the number of records held at once.
// Zero means no limit.
func WithMaxRecords(n int) RegistryOption {
	return func(r *Registry) { r.maxRecords = max(n, 0) }
}

// WithMaxValueLen limits the length in bytes of a variable value.
// Zero means no limit.
func WithMaxValueLen(n int) RegistryOption {
	return func(r *Registry) { r.maxValue = max(n, 0) }
}

// WithRegistryLogger sets the logger used to trace bootstrap and teardown.
func WithRegistryLogger(logger log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{fold: env.FoldCase}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Registry) equal(a, b string) bool {
	if r.fold {
		return strings.EqualFold(a, b)
	}

	return a == b
}

func (r *Registry) hasPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && r.equal(name[:len(prefix)], prefix)
}

// Len returns the number of records held, including removed ones.
func (r *Registry) Len() int { return len(r.slots) - r.free }

// All returns an iterator over the records in storage order, including
// removed ones.
func (r *Registry) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for _, rec := range r.slots {
			if rec != nil && !yield(rec) {
				return
			}
		}
	}
}

// Find returns the record named name, including a removed one.
func (r *Registry) Find(name string) (*Record, bool) {
	for rec := range r.All() {
		if r.equal(rec.Name, name) {
			return rec, true
		}
	}

	return nil, false
}

// Read returns the value of the variable named name, or the empty string if
// it is unknown or removed.
func (r *Registry) Read(name string) string {
	if rec, ok := r.Find(name); ok && rec.Live() {
		return rec.Value
	}

	return ""
}

// GetOrCreate returns the record named name, creating an empty one if
// needed. It fails only when the record limit has been reached.
func (r *Registry) GetOrCreate(name string) (*Record, error) {
	if rec, ok := r.Find(name); ok {
		return rec, nil
	}

	rec := &Record{Name: name}

	if r.free > 0 {
		for i, slot := range r.slots {
			if slot == nil {
				r.slots[i] = rec
				r.free--

				return rec, nil
			}
		}
	}

	if r.maxRecords > 0 && len(r.slots) >= r.maxRecords {
		return nil, ErrAllocation.Wrap(errors.New(name)).
			With(slog.Int("limit", r.maxRecords))
	}

	r.slots = append(r.slots, rec)

	return rec, nil
}

// fits reports whether value is within the value length limit.
func (r *Registry) fits(name, value string) error {
	if r.maxValue > 0 && len(value) > r.maxValue {
		return ErrAllocation.Wrap(errors.New(name)).
			With(slog.Int("length", len(value)), slog.Int("limit", r.maxValue))
	}

	return nil
}

// Assign sets the value of name, creating its record if needed and
// reviving it if removed. On failure the registry is unchanged.
func (r *Registry) Assign(name, value string) (*Record, error) {
	if err := r.fits(name, value); err != nil {
		return nil, err
	}

	rec, err := r.GetOrCreate(name)
	if err != nil {
		return nil, err
	}

	rec.Value = value
	rec.Removed = false

	return rec, nil
}

// Append appends value to the value of name. A variable that is unknown
// or removed is assigned value instead.
func (r *Registry) Append(name, value string) (*Record, error) {
	rec, ok := r.Find(name)
	if !ok || !rec.Live() {
		return r.Assign(name, value)
	}

	joined := rec.Value + value
	if err := r.fits(name, joined); err != nil {
		return nil, err
	}

	rec.Value = joined

	return rec, nil
}

// Remove unsets the variable named name: an inherited record is marked
// removed, any other record is erased. It fails if name is unknown or
// already removed.
func (r *Registry) Remove(name string) (*Record, error) {
	for i, rec := range r.slots {
		if rec == nil || !r.equal(rec.Name, name) {
			continue
		}

		if rec.Removed {
			break
		}

		if rec.Inherited {
			rec.Removed = true
		} else {
			r.slots[i] = nil
			r.free++
		}

		return rec, nil
	}

	return nil, ErrNotFound.Wrap(errors.New(name))
}

// Bootstrap records the inherited environment given as "NAME=VALUE"
// entries. An entry that cannot be recorded is skipped. The first of
// several entries naming the same variable is recorded; a later spelling
// that differs only in case is restored by [Registry.Teardown] as it was.
// It returns the number of entries recorded.
func (r *Registry) Bootstrap(ctx context.Context, entries []string) int {
	count := 0

	for _, entry := range entries {
		name, value, ok := env.Split(entry)
		if !ok {
			continue
		}

		if rec, ok := r.Find(name); ok && rec.Inherited {
			if rec.Name != name {
				r.shadowed = append(r.shadowed, entry)
			}

			r.logger.DebugContext(ctx, "duplicate inherited variable",
				slog.String("name", name), slog.String("record", rec.Name))

			continue
		}

		err := r.fits(name, value)
		if err == nil {
			var rec *Record

			rec, err = r.GetOrCreate(name)
			if err == nil {
				rec.Inherited = true
				rec.Initial = value
				rec.Value = value
				count++

				continue
			}
		}

		r.logger.WarnContext(ctx, "skipped inherited variable",
			slog.String("name", name), slog.Any("error", err))
	}

	r.logger.DebugContext(ctx, "bootstrap complete",
		slog.Int("entries", len(entries)), slog.Int("recorded", count))

	return count
}

// Teardown restores every inherited variable to its initial value and
// unsets every other tracked variable in bridge, then empties the registry.
func (r *Registry) Teardown(ctx context.Context, bridge env.Bridge) error {
	var errs pkg.Error

	for rec := range r.All() {
		var err error

		if rec.Inherited {
			err = bridge.Set(rec.Name, rec.Initial)
		} else {
			err = bridge.Unset(rec.Name)
		}

		if err != nil {
			errs = append(errs, err)
		}

		r.logger.TraceContext(ctx, "restored",
			slog.String("name", rec.Name),
			slog.Bool("inherited", rec.Inherited),
			slog.Bool("removed", rec.Removed))
	}

	for _, entry := range r.shadowed {
		name, value, _ := env.Split(entry)
		if err := bridge.Set(name, value); err != nil {
			errs = append(errs, err)
		}
	}

	r.logger.DebugContext(ctx, "teardown complete",
		slog.Int("records", r.Len()),
		slog.Int("shadowed", len(r.shadowed)),
		slog.Int("failed", len(errs)))

	r.slots = nil
	r.free = 0
	r.shadowed = nil

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Environ returns the visible variables in storage order as "NAME=VALUE"
// entries.
func (r *Registry) Environ() []string {
	out := make([]string, 0, r.Len())

	for rec := range r.All() {
		if rec.Live() {
			out = append(out, rec.Name+"="+rec.Value)
		}
	}

	return out
}
