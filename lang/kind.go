package lang

import "strconv"

// MaxNameLen is the maximum number of characters of a variable name a
// statement consumes. Longer names are truncated; the excess characters are
// left in the statement for the next parsing step.
const MaxNameLen = 64

// VarKind identifies the namespace a statement targets.
type VarKind int

const (
	// EnvVar is an environment variable, written $NAME.
	EnvVar VarKind = iota
	// AnyOption is an option of either scope, written &NAME.
	AnyOption
	// GlobalOption is the global copy of an option, written &g:NAME.
	GlobalOption
	// LocalOption is the local copy of an option, written &l:NAME.
	LocalOption
)

func (k VarKind) String() string {
	switch k {
	case EnvVar:
		return "environment variable"
	case AnyOption:
		return "option"
	case GlobalOption:
		return "global option"
	case LocalOption:
		return "local option"
	default:
		return "VarKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operator is the assignment operator of a let statement.
type Operator int

const (
	Assign   Operator = iota // =
	Append                   // .=
	Add                      // +=
	Subtract                 // -=
)

func (o Operator) String() string {
	switch o {
	case Assign:
		return "="
	case Append:
		return ".="
	case Add:
		return "+="
	case Subtract:
		return "-="
	default:
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
}
