package cmd

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/envlet/env"
)

var inherited = []string{"HOME=/root", "TERM=xterm"}

var statements = []string{
	`let $A = 'x'`,
	`let $HOME .= '/sub'`,
	`unlet $TERM`,
	`echo $A`,
}

func runScript(t *testing.T, s *Script, setup *Setup) (string, string, error) {
	t.Helper()

	var out, diag bytes.Buffer

	bridge := env.NewMap(inherited...)
	s.out, s.diag, s.bridge = &out, &diag, bridge

	if setup == nil {
		setup = &Setup{}
	}

	err := s.Run(t.Context(), setup)

	got := bridge.Environ()
	slices.Sort(got)

	if diff := cmp.Diff(inherited, got); diff != "" {
		t.Errorf("environment not restored (-want +got):\n%s", diff)
	}

	return out.String(), diag.String(), err
}

func TestScriptFormats(t *testing.T) {
	tests := []struct {
		format  string
		changed bool
		want    string
	}{
		{formatEnv, false, "x\nHOME=/root/sub\nA=x\n"},
		{formatEnv, true, "x\nHOME=/root/sub\nA=x\n"},
		{formatSh, true, "x\nexport HOME='/root/sub'\nunset TERM\nexport A='x'\n"},
		{formatJSON, true, "x\n{\n  \"A\": \"x\",\n  \"HOME\": \"/root/sub\",\n  \"TERM\": null\n}\n"},
		{formatNone, false, "x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s := &Script{Statement: statements, Format: tt.format, Changed: tt.changed}

			out, diag, err := runScript(t, s, nil)
			if err != nil {
				t.Fatalf("Run() error = %v\n%s", err, diag)
			}

			if out != tt.want {
				t.Errorf("Run() output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestScriptYAML(t *testing.T) {
	s := &Script{Statement: statements[:3], Format: formatYAML, Changed: true}

	out, _, err := runScript(t, s, nil)
	if err != nil {
		t.Fatal(err)
	}

	var got yaml.MapSlice
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}

	want := yaml.MapSlice{
		{Key: "HOME", Value: "/root/sub"},
		{Key: "TERM", Value: nil},
		{Key: "A", Value: "x"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("YAML mismatch (-want +got):\n%s", diff)
	}
}

func TestScriptErrors(t *testing.T) {
	stmts := []string{`let $A 1`, `unlet $NOPE $`, `echo 'after'`}

	t.Run("stop", func(t *testing.T) {
		out, diag, err := runScript(t, &Script{Statement: stmts, Format: formatEnv}, nil)
		if !errors.Is(err, ErrStatement) {
			t.Fatalf("Run() error = %v, want %v", err, ErrStatement)
		}

		if out != "" {
			t.Errorf("Run() output = %q, want none", out)
		}

		want := "-e 1: incorrect :let statement: '=' expected at \"1\"\n"
		if diag != want {
			t.Errorf("diagnostics = %q, want %q", diag, want)
		}
	})

	t.Run("keep going", func(t *testing.T) {
		s := &Script{Statement: stmts, Format: formatEnv, KeepGoing: true}

		out, diag, err := runScript(t, s, nil)
		if !errors.Is(err, ErrStatement) {
			t.Fatalf("Run() error = %v, want %v", err, ErrStatement)
		}

		if out != "after\n" {
			t.Errorf("Run() output = %q, want %q", out, "after\n")
		}

		want := "-e 1: incorrect :let statement: '=' expected at \"1\"\n" +
			"-e 2: no such variable: NOPE\n" +
			"-e 2: unsupported variable name: empty name at \"$\"\n"
		if diag != want {
			t.Errorf("diagnostics = %q, want %q", diag, want)
		}
	})

	t.Run("allocation", func(t *testing.T) {
		_, diag, err := runScript(t,
			&Script{Statement: []string{`let $A = 'x'`}, Format: formatEnv},
			&Setup{MaxVars: 2})
		if !errors.Is(err, ErrStatement) {
			t.Fatalf("Run() error = %v, want %v", err, ErrStatement)
		}

		if want := "-e 1: variable storage exhausted: A\n"; diag != want {
			t.Errorf("diagnostics = %q, want %q", diag, want)
		}
	})
}

func TestScriptFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vars.let")
	link := filepath.Join(dir, "link.let")

	content := "\" set up\nlet $F = 'file'\n\necho $F\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	s := &Script{
		File:      []string{path, link, path},
		Statement: []string{`echo $F + '!'`},
		Format:    formatNone,
	}

	out, diag, err := runScript(t, s, nil)
	if err != nil {
		t.Fatalf("Run() error = %v\n%s", err, diag)
	}

	if want := "file\nfile!\n"; out != want {
		t.Errorf("Run() output = %q, want %q", out, want)
	}
}

func TestScriptFileErrorLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.let")
	if err := os.WriteFile(path, []byte("let $A = 1\nlet A = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, diag, err := runScript(t, &Script{File: []string{path}, Format: formatEnv}, nil)
	if !errors.Is(err, ErrStatement) {
		t.Fatalf("Run() error = %v, want %v", err, ErrStatement)
	}

	if want := path + ":2: incorrect variable type at \"A = 2\"\n"; diag != want {
		t.Errorf("diagnostics = %q, want %q", diag, want)
	}
}

func TestScriptCommand(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no shell available")
	}

	s := &Script{
		Statement: []string{`let $GREETING = 'hello'`, `unlet $TERM`},
		Command:   []string{sh, "-c", `echo "$GREETING ${TERM:-none} $HOME"`},
	}

	out, diag, err := runScript(t, s, nil)
	if err != nil {
		t.Fatalf("Run() error = %v\n%s", err, diag)
	}

	if want := "hello none /root\n"; out != want {
		t.Errorf("command output = %q, want %q", out, want)
	}

	s = &Script{Command: []string{sh, "-c", "exit 3"}}

	if _, _, err := runScript(t, s, nil); !errors.Is(err, ErrExec) {
		t.Errorf("Run() error = %v, want %v", err, ErrExec)
	}
}

func TestWriteEntriesInvalidFormat(t *testing.T) {
	err := writeEntries(&bytes.Buffer{}, "xml", nil)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("writeEntries() error = %v, want %v", err, ErrInvalidFormat)
	}
}

func TestShellQuote(t *testing.T) {
	tests := map[string]string{
		"":      `''`,
		"plain": `'plain'`,
		"it's":  `'it'\''s'`,
		"$HOME": `'$HOME'`,
	}

	for in, want := range tests {
		if got := shellQuote(in); got != want {
			t.Errorf("shellQuote(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestScriptOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.let")
	if err := os.WriteFile(path, []byte("let $O = 'file'\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// -e statements run after every file, whatever their position.
	s := &Script{
		Statement: []string{`let $O .= '+expr'`},
		File:      []string{path},
		Format:    formatEnv,
		Changed:   true,
	}

	out, diag, err := runScript(t, s, nil)
	if err != nil {
		t.Fatalf("Run() error = %v\n%s", err, diag)
	}

	if want := "O=file+expr\n"; out != want {
		t.Errorf("Run() output = %q, want %q", out, want)
	}
}
