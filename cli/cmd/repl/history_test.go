package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path, 0)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"let $A = 1", modeStmt},
		{"vars", modeCtrl},
		{"echo $A", modeStmt},
		{"let $A = 1", modeStmt},
		{"let $A = 1", modeStmt},
		{"  ", modeStmt},
	} {
		if _, err := h.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatalf("WriteWithMode(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"vars", modeCtrl},
		{"echo $A", modeStmt},
		{"let $A = 1", modeStmt},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(content), "C:vars\nS:echo $A\nS:let $A = 1\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}

	reloaded := NewHistory(path, 0)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryLoadUnprefixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("let $A = 1\n\nC:quit\nS:echo 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path, 0)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{
		{"let $A = 1", modeStmt},
		{"quit", modeCtrl},
		{"echo 2", modeStmt},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path, 2)
	for _, line := range []string{"echo 1", "echo 2", "echo 3"} {
		if _, err := h.WriteWithMode(line, modeStmt); err != nil {
			t.Fatal(err)
		}
	}

	if got := h.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	if e, _ := h.GetEntry(0); e.Line != "echo 2" {
		t.Errorf("oldest entry = %q, want %q", e.Line, "echo 2")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(content), "S:echo 2\nS:echo 3\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}

	// A longer file is trimmed on load.
	short := NewHistory(path, 1)
	if err := short.Load(); err != nil {
		t.Fatal(err)
	}

	if e, _ := short.GetEntry(0); short.Len() != 1 || e.Line != "echo 3" {
		t.Errorf("trimmed on load: %v", short.Entries())
	}
}

func TestHistoryInMemory(t *testing.T) {
	h := NewHistory("", 0)

	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if _, err := h.WriteWithMode("echo 1", modeStmt); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}

	if _, err := h.GetEntry(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetEntry(1) error = %v, want %v", err, ErrOutOfBounds)
	}
}
