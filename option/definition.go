package option

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Definition describes an option to be added to a [Store].
type Definition struct {
	Name    string   `yaml:"name"`
	Abbr    string   `yaml:"abbr,omitempty"`
	Type    Type     `yaml:"type"`
	Scopes  []Scope  `yaml:"scopes,omitempty"`
	Default any      `yaml:"default,omitempty"`
	Items   []string `yaml:"items,omitempty"`
}

// defaultText returns the default value in the text form accepted by
// [Option.Set].
func (d Definition) defaultText() string {
	switch v := d.Default.(type) {
	case nil:
		switch d.Type {
		case Bool:
			return "false"
		case Int:
			return "0"
		case Enum:
			if len(d.Items) > 0 {
				return d.Items[0]
			}
		}

		return ""

	case string:
		return v

	case []string:
		return strings.Join(v, ",")

	case []any:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = fmt.Sprint(x)
		}

		return strings.Join(parts, ",")

	default:
		return fmt.Sprint(v)
	}
}

type definitionFile struct {
	Options []Definition `yaml:"options"`
}

// LoadDefinitions decodes a YAML document of the form
//
//	options:
//	  - name: tabstop
//	    abbr: ts
//	    type: int
//	    scopes: [global, local]
//	    default: 8
func LoadDefinitions(r io.Reader) ([]Definition, error) {
	var f definitionFile

	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrReadDefinitions, err)
	}

	return f.Options, nil
}

// Load defines every option read from r with [LoadDefinitions].
func (s *Store) Load(r io.Reader) error {
	defs, err := LoadDefinitions(r)
	if err != nil {
		return err
	}

	for _, d := range defs {
		if err := s.Define(d); err != nil {
			return err
		}
	}

	return nil
}
