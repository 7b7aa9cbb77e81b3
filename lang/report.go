package lang

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardnew/envlet/pkg"
)

// Diagnostics receives human-readable failure reports, one line each.
type Diagnostics interface {
	AppendLine(line string)
}

// Lines is a [Diagnostics] that collects lines in memory.
type Lines []string

// AppendLine implements [Diagnostics].
func (l *Lines) AppendLine(line string) { *l = append(*l, line) }

// Report writes one line to sink for each failure in err and returns the
// number of lines written. An error returned by [Engine.Unlet] yields one
// line per failed token.
func Report(sink Diagnostics, err error) int {
	if err == nil {
		return 0
	}

	var agg pkg.Error
	if !errors.As(err, &agg) {
		sink.AppendLine(err.Error())

		return 1
	}

	lines := agg.Lines()
	for _, line := range lines {
		sink.AppendLine(line)
	}

	return len(lines)
}

// Stringify converts an evaluated value to the text assigned to a variable.
// Booleans become "1" or "0" and lists are joined with commas.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}

		return "0"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ",")
	case []any:
		parts := make([]string, len(val))
		for i, x := range val {
			parts[i] = Stringify(x)
		}

		return strings.Join(parts, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
