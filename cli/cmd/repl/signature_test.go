package repl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/envlet/eval"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  functionCall
	}{
		{"no_call", "echo $A", functionCall{}},
		{"first_arg", "echo env(", functionCall{name: "env", inCall: true}},
		{"second_arg", "echo option('ts', ", functionCall{name: "option", argIndex: 1, inCall: true}},
		{"member", "let $P = mung.prefix($P, '/a', ", functionCall{name: "mung.prefix", argIndex: 2, inCall: true}},
		{"nested", "echo upper(env('A'", functionCall{name: "env", inCall: true}},
		{"after_nested", "echo join(split($P, ':'), ", functionCall{name: "join", argIndex: 1, inCall: true}},
		{"closed", "echo env('A')", functionCall{}},
		{"quoted_paren", "echo upper('(', ", functionCall{name: "upper", argIndex: 1, inCall: true}},
		{"quoted_comma", "echo upper('a,b", functionCall{name: "upper", inCall: true}},
		{"grouping", "echo (", functionCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, len(tt.input))
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(functionCall{})); diff != "" {
				t.Errorf("detectFunctionCall(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestSignatureOf(t *testing.T) {
	e := eval.New(nil, nil)

	tests := []struct {
		path       string
		wantSig    string
		wantParams []string
	}{
		{"join", "join(array, separator)", []string{"array", "separator"}},
		{"env", "env(string)", []string{"string"}},
		{"option", "option(string, string)", []string{"string", "string"}},
		{"mung.prefix", "mung.prefix(string, ...string)", []string{"string", "...string"}},
		{"pathsep", "", nil},
		{"nosuch", "", nil},
	}

	for _, tt := range tests {
		sig, params := signatureOf(e.Builtin, tt.path)
		if sig != tt.wantSig {
			t.Errorf("signatureOf(%q) = %q, want %q", tt.path, sig, tt.wantSig)
		}

		if diff := cmp.Diff(tt.wantParams, params); diff != "" {
			t.Errorf("signatureOf(%q) params mismatch (-want +got):\n%s", tt.path, diff)
		}
	}

	if sig, _ := signatureOf(nil, "env"); sig != "" {
		t.Errorf("signatureOf without lookup = %q, want none", sig)
	}
}

func TestIsFunction(t *testing.T) {
	e := eval.New(nil, nil)

	for path, want := range map[string]bool{
		"upper":       true,
		"env":         true,
		"mung.prefix": true,
		"mung":        false,
		"pathsep":     false,
		"nosuch":      false,
	} {
		if got := isFunction(e.Builtin, path); got != want {
			t.Errorf("isFunction(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		signature string
		params    []string
		current   int
	}{
		{"env(string)", []string{"string"}, 0},
		{"mung.prefix(string, ...string)", []string{"string", "...string"}, 3},
		{"noparams", nil, 0},
	}

	for _, tt := range tests {
		got := renderSignatureHint(tt.signature, tt.params, tt.current)

		for _, part := range append([]string{strings.SplitN(tt.signature, "(", 2)[0]}, tt.params...) {
			if !strings.Contains(got, part) {
				t.Errorf("renderSignatureHint(%q) = %q, missing %q", tt.signature, got, part)
			}
		}
	}
}
