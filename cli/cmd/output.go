package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/envlet/lang"
)

// Output formats of the run command.
const (
	formatEnv  = "env"
	formatSh   = "sh"
	formatJSON = "json"
	formatYAML = "yaml"
	formatNone = "none"
)

// formats lists the output formats, in the order shown in help.
var formats = []string{formatEnv, formatSh, formatJSON, formatYAML, formatNone}

// entry is a variable to report. A nil value is an unset variable.
type entry struct {
	name  string
	value *string
}

// entries returns the variables of vars to report, in storage order. With
// changed set, only variables whose value differs from the one inherited
// are reported, including those unset.
func entries(vars *lang.Registry, changed bool) []entry {
	var out []entry

	for rec := range vars.All() {
		if changed && rec.Inherited && !rec.Removed && rec.Value == rec.Initial {
			continue
		}

		if !changed && rec.Removed {
			continue
		}

		e := entry{name: rec.Name}
		if !rec.Removed {
			v := rec.Value
			e.value = &v
		}

		out = append(out, e)
	}

	return out
}

// writeEntries writes es to w in the given format.
func writeEntries(w io.Writer, format string, es []entry) error {
	switch format {
	case formatNone:
		return nil

	case formatEnv:
		for _, e := range es {
			if e.value != nil {
				fmt.Fprintf(w, "%s=%s\n", e.name, *e.value)
			}
		}

	case formatSh:
		for _, e := range es {
			if e.value == nil {
				fmt.Fprintf(w, "unset %s\n", e.name)
			} else {
				fmt.Fprintf(w, "export %s=%s\n", e.name, shellQuote(*e.value))
			}
		}

	case formatJSON:
		m := make(map[string]*string, len(es))
		for _, e := range es {
			m[e.name] = e.value
		}

		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case formatYAML:
		ms := make(yaml.MapSlice, 0, len(es))
		for _, e := range es {
			var v any
			if e.value != nil {
				v = *e.value
			}

			ms = append(ms, yaml.MapItem{Key: e.name, Value: v})
		}

		data, err := yaml.Marshal(ms)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		return ErrInvalidFormat.Wrap(fmt.Errorf("%q (valid: %s)",
			format, strings.Join(formats, ", ")))
	}

	return nil
}

// shellQuote quotes s for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
