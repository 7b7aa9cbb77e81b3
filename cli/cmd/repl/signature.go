package repl

import (
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// exprBuiltins defines the parameters of the expr-lang builtin functions
// most useful on the right-hand side of a statement.
var exprBuiltins = map[string][]string{
	"len":       {"v"},
	"join":      {"array", "separator"},
	"split":     {"string", "separator"},
	"replace":   {"string", "old", "new"},
	"trim":      {"string"},
	"trimLeft":  {"string"},
	"trimRight": {"string"},
	"upper":     {"string"},
	"lower":     {"string"},
	"hasPrefix": {"string", "prefix"},
	"hasSuffix": {"string", "suffix"},
	"indexOf":   {"string", "substring"},
	"filter":    {"array", "predicate"},
	"map":       {"array", "mapper"},
	"uniq":      {"array"},
	"int":       {"v"},
	"string":    {"v"},
	"type":      {"v"},
}

// exprBuiltinNames returns the names of the expr-lang builtin functions
// offered for completion.
func exprBuiltinNames() []string {
	names := make([]string, 0, len(exprBuiltins))
	for name := range exprBuiltins {
		names = append(names, name)
	}

	return names
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // member path of the function (e.g., "mung.prefix")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall reports the innermost function call whose parameter
// list contains the cursor, and the index of the argument being typed.
// Parentheses inside quoted strings are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Stack of open parenthesis offsets, and argument counts per level.
	var (
		opens []int
		args  []int
		quote byte
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}

		case c == '\'' || c == '"' || c == '`':
			quote = c

		case c == '(':
			opens = append(opens, i)
			args = append(args, 0)

		case c == ')':
			if len(opens) > 0 {
				opens = opens[:len(opens)-1]
				args = args[:len(args)-1]
			}

		case c == ',':
			if len(args) > 0 {
				args[len(args)-1]++
			}
		}
	}

	if len(opens) == 0 {
		return functionCall{}
	}

	open := opens[len(opens)-1]

	start := open
	for start > 0 && isPathChar(input[start-1]) {
		start--
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: args[len(args)-1], inCall: true}
}

func isPathChar(c byte) bool {
	return c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// signatureOf returns the signature of the function at path and the names
// of its parameters. Builtins found by lookup are described by their Go
// parameter types.
func signatureOf(
	lookup func(path string) (any, bool),
	path string,
) (signature string, params []string) {
	if params, ok := exprBuiltins[path]; ok {
		return path + "(" + strings.Join(params, ", ") + ")", params
	}

	if lookup == nil {
		return "", nil
	}

	fn, ok := lookup(path)
	if !ok {
		return "", nil
	}

	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return "", nil
	}

	params = make([]string, t.NumIn())
	for i := range params {
		in := t.In(i)

		if t.IsVariadic() && i == len(params)-1 {
			params[i] = "..." + typeName(in.Elem())
		} else {
			params[i] = typeName(in)
		}
	}

	return path + "(" + strings.Join(params, ", ") + ")", params
}

// isFunction reports whether path names a callable builtin.
func isFunction(lookup func(path string) (any, bool), path string) bool {
	if _, ok := exprBuiltins[path]; ok {
		return true
	}

	if lookup == nil {
		return false
	}

	v, ok := lookup(path)

	return ok && reflect.TypeOf(v) != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// typeName converts a reflect.Type to a readable parameter name.
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Func:
		return "func"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice:
		return "list"
	case reflect.Map:
		return "map"
	case reflect.Pointer:
		return typeName(t.Elem())
	default:
		if t.Name() != "" {
			return t.Name()
		}

		return "arg"
	}
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted. A variadic parameter stays highlighted for every
// argument it absorbs.
func renderSignatureHint(signature string, params []string, current int) string {
	open := strings.IndexByte(signature, '(')
	if open < 0 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if current == i || (variadic && current > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
