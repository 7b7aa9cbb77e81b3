package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestName(t *testing.T) {
	expected := "envlet"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestErrorChain(t *testing.T) {
	inner := errors.New("inner")
	outer := MakeErrorf("outer")

	chain := MakeError(inner).Wrap(outer)

	if got, want := chain.Error(), "inner: outer"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(chain, inner) {
		t.Error("errors.Is(chain, inner) = false, want true")
	}

	if MakeError(nil, nil) != nil {
		t.Error("MakeError(nil, nil) should be nil")
	}
}

func TestErrorLines(t *testing.T) {
	agg := Error{errors.New("first"), nil, errors.New("second")}

	if diff := cmp.Diff([]string{"first", "second"}, agg.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnwrapErrors(t *testing.T) {
	base := errors.New("base")
	wrapped := errors.Join(base, errors.New("sibling"))

	chain := UnwrapErrors(wrapped)
	if len(chain) != 3 {
		t.Fatalf("len(UnwrapErrors) = %d, want 3", len(chain))
	}

	if chain[0] != base {
		t.Errorf("innermost = %v, want %v", chain[0], base)
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		exe, want string
	}{
		{"/usr/local/bin/envlet", "envlet"},
		{"/tmp/envlet.exe", "envlet"},
		{"/opt/.envlet-dev", "envlet-dev"},
		{"/tmp/__debug_bin3021", Name},
		{"/tmp/...", Name},
	}

	for _, tt := range tests {
		if got := prefixOf(tt.exe); got != tt.want {
			t.Errorf("prefixOf(%q) = %q, want %q", tt.exe, got, tt.want)
		}
	}
}

func TestEnvPrefixOf(t *testing.T) {
	tests := []struct {
		prefix, want string
	}{
		{"envlet", "ENVLET"},
		{"envlet-dev", "ENVLET_DEV"},
		{"my.tool2", "MY_TOOL2"},
	}

	for _, tt := range tests {
		if got := envPrefixOf(tt.prefix); got != tt.want {
			t.Errorf("envPrefixOf(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestUserDir(t *testing.T) {
	base := t.TempDir()

	got := userDir(func() (string, error) { return base, nil }, ".config")
	if want := filepath.Join(base, Prefix()); got != want {
		t.Errorf("userDir() = %q, want %q", got, want)
	}

	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		return
	}

	t.Setenv("HOME", base)

	got = userDir(func() (string, error) { return "", errors.New("unset") }, ".cache")
	if want := filepath.Join(base, ".cache", Prefix()); got != want {
		t.Errorf("userDir() fallback = %q, want %q", got, want)
	}
}
