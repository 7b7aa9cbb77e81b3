package option

import (
	"fmt"
	"strings"
)

// Type is the value type of an option.
type Type int

const (
	Bool Type = iota
	Int
	String
	StringList
	Enum
	Set
	CharSet
)

var typeName = [...]string{
	Bool:       "bool",
	Int:        "int",
	String:     "string",
	StringList: "strlist",
	Enum:       "enum",
	Set:        "set",
	CharSet:    "charset",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeName) {
		return typeName[t]
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalText implements [encoding.TextMarshaler].
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Type) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range typeName {
		if name == s {
			*t = Type(i)

			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Class groups types by the operators a statement may apply to them.
type Class int

const (
	ClassBool Class = iota
	ClassString
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassBool:
		return "bool"
	case ClassString:
		return "string"
	default:
		return "other"
	}
}

// Class returns the operator class of t.
func (t Type) Class() Class {
	switch t {
	case Bool:
		return ClassBool
	case String:
		return ClassString
	default:
		return ClassOther
	}
}

// Scope selects which copy of an option a name refers to.
type Scope int

const (
	Global Scope = iota
	Local
)

func (s Scope) String() string {
	if s == Local {
		return "local"
	}

	return "global"
}

// MarshalText implements [encoding.TextMarshaler].
func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Scope) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "global", "g":
		*s = Global
	case "local", "l":
		*s = Local
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScope, text)
	}

	return nil
}

// Op is a modification applied to an option value.
type Op int

const (
	OpSet Op = iota
	OpAdd
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "set"
	}
}

// Descriptor identifies one scoped option and its operator class.
type Descriptor struct {
	Name  string
	Scope Scope
	Type  Type
}

// Class returns the operator class of the described option.
func (d Descriptor) Class() Class { return d.Type.Class() }
