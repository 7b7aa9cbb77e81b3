package env

import "slices"

// Map is an in-memory [Bridge]. Entries keep the order in which their names
// were first defined. The zero value is an empty table ready to use.
type Map struct {
	keys []string
	vals map[string]entry
}

type entry struct {
	name  string
	value string
}

// NewMap returns a Map populated from "NAME=VALUE" entries, in order.
// Malformed entries are ignored.
func NewMap(entries ...string) *Map {
	m := &Map{}

	for _, e := range entries {
		if name, value, ok := Split(e); ok {
			_ = m.Set(name, value)
		}
	}

	return m
}

// Get implements [Bridge].
func (m *Map) Get(name string) (string, bool) {
	e, ok := m.vals[NameKey(name)]

	return e.value, ok
}

// Set implements [Bridge]. An existing entry keeps its position and the
// spelling of its name.
func (m *Map) Set(name, value string) error {
	if m.vals == nil {
		m.vals = make(map[string]entry)
	}

	key := NameKey(name)

	e, ok := m.vals[key]
	if !ok {
		m.keys = append(m.keys, key)
		e.name = name
	}

	e.value = value
	m.vals[key] = e

	return nil
}

// Unset implements [Bridge].
func (m *Map) Unset(name string) error {
	key := NameKey(name)

	if _, ok := m.vals[key]; ok {
		delete(m.vals, key)
		m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	}

	return nil
}

// Environ implements [Bridge].
func (m *Map) Environ() []string {
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		e := m.vals[k]
		out = append(out, e.name+"="+e.value)
	}

	return out
}

// Len returns the number of defined variables.
func (m *Map) Len() int { return len(m.keys) }
