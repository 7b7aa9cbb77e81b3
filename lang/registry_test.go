package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/envlet/env"
)

func names(r *Registry) []string {
	var out []string
	for rec := range r.All() {
		out = append(out, rec.Name)
	}

	return out
}

func checkInvariants(t *testing.T, r *Registry) {
	t.Helper()

	seen := map[string]bool{}

	for rec := range r.All() {
		if rec.Removed && !rec.Inherited {
			t.Errorf("record %s is removed but not inherited", rec.Name)
		}

		key := rec.Name
		if r.fold {
			key = strings.ToUpper(key)
		}

		if seen[key] {
			t.Errorf("duplicate record %s", rec.Name)
		}

		seen[key] = true
	}
}

func TestSlotReuse(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"A", "B", "C"} {
		if _, err := r.Assign(name, "v"); err != nil {
			t.Fatalf("Assign(%s): %v", name, err)
		}
	}

	if _, err := r.Remove("B"); err != nil {
		t.Fatalf("Remove(B): %v", err)
	}

	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	if _, err := r.Assign("D", "v"); err != nil {
		t.Fatalf("Assign(D): %v", err)
	}

	if _, err := r.Assign("E", "v"); err != nil {
		t.Fatalf("Assign(E): %v", err)
	}

	if diff := cmp.Diff([]string{"A", "D", "C", "E"}, names(r)); diff != "" {
		t.Errorf("storage order mismatch (-want +got):\n%s", diff)
	}

	checkInvariants(t, r)
}

func TestTombstone(t *testing.T) {
	r := NewRegistry()
	if n := r.Bootstrap(t.Context(), []string{"HOME=/root", "bogus", "=C:=C:\\", "EMPTY="}); n != 2 {
		t.Fatalf("Bootstrap recorded %d entries, want 2", n)
	}

	rec, err := r.Remove("HOME")
	if err != nil {
		t.Fatalf("Remove(HOME): %v", err)
	}

	if !rec.Removed || !rec.Inherited || rec.Initial != "/root" {
		t.Errorf("record after Remove = %+v", *rec)
	}

	if got := r.Read("HOME"); got != "" {
		t.Errorf("Read(HOME) = %q after Remove", got)
	}

	if _, ok := r.Find("HOME"); !ok {
		t.Error("tombstone not retained")
	}

	if _, err := r.Remove("HOME"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove error = %v, want %v", err, ErrNotFound)
	}

	rec, err = r.Append("HOME", "/new")
	if err != nil {
		t.Fatalf("Append(HOME): %v", err)
	}

	if rec.Value != "/new" || rec.Removed || !rec.Inherited {
		t.Errorf("revived record = %+v", *rec)
	}

	checkInvariants(t, r)
}

func TestAppend(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Append("X", "a"); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Append("X", "b"); err != nil {
		t.Fatal(err)
	}

	if got := r.Read("X"); got != "ab" {
		t.Errorf("Read(X) = %q, want ab", got)
	}
}

func TestTeardown(t *testing.T) {
	bridge := env.NewMap("KEEP=1", "DROP=2", "EDIT=3")

	r := NewRegistry()
	r.Bootstrap(t.Context(), bridge.Environ())

	set := func(name, value string) {
		t.Helper()

		rec, err := r.Assign(name, value)
		if err != nil {
			t.Fatal(err)
		}

		_ = bridge.Set(rec.Name, rec.Value)
	}

	set("EDIT", "changed")
	set("NEW", "x")

	if _, err := r.Remove("DROP"); err != nil {
		t.Fatal(err)
	}

	_ = bridge.Unset("DROP")

	if err := r.Teardown(t.Context(), bridge); err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	got := bridge.Environ()
	slices.Sort(got)

	want := []string{"DROP=2", "EDIT=3", "KEEP=1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("environment after teardown (-want +got):\n%s", diff)
	}

	if r.Len() != 0 {
		t.Errorf("Len() = %d after teardown", r.Len())
	}
}

func TestLimits(t *testing.T) {
	t.Run("records", func(t *testing.T) {
		r := NewRegistry(WithMaxRecords(2))
		r.Bootstrap(t.Context(), []string{"A=1", "B=2", "C=3"})

		if diff := cmp.Diff([]string{"A", "B"}, names(r)); diff != "" {
			t.Errorf("bootstrap mismatch (-want +got):\n%s", diff)
		}

		_, err := r.Assign("D", "4")
		if !errors.Is(err, ErrAllocation) || CategoryOf(err) != CategoryAllocation {
			t.Fatalf("Assign(D) error = %v, want %v", err, ErrAllocation)
		}

		if _, ok := r.Find("D"); ok {
			t.Error("failed Assign left a record")
		}

		// Tombstones keep their slot.
		if _, err := r.Remove("A"); err != nil {
			t.Fatal(err)
		}

		if _, err := r.Assign("D", "4"); !errors.Is(err, ErrAllocation) {
			t.Errorf("Assign(D) after tombstone error = %v", err)
		}

		// Updating an existing record needs no slot.
		if _, err := r.Assign("B", "two"); err != nil {
			t.Errorf("Assign(B): %v", err)
		}
	})

	t.Run("value length", func(t *testing.T) {
		r := NewRegistry(WithMaxValueLen(3))

		if _, err := r.Assign("A", "abcd"); !errors.Is(err, ErrAllocation) {
			t.Fatalf("Assign error = %v, want %v", err, ErrAllocation)
		}

		if r.Len() != 0 {
			t.Error("failed Assign left a record")
		}

		if _, err := r.Assign("A", "ab"); err != nil {
			t.Fatal(err)
		}

		if _, err := r.Append("A", "cd"); !errors.Is(err, ErrAllocation) {
			t.Fatalf("Append error = %v, want %v", err, ErrAllocation)
		}

		if got := r.Read("A"); got != "ab" {
			t.Errorf("Read(A) = %q after failed Append, want ab", got)
		}
	})
}

func TestFoldCase(t *testing.T) {
	tests := []struct {
		fold bool
		want []string
	}{
		{true, []string{"Path"}},
		{false, []string{"Path", "PATH"}},
	}

	for _, tt := range tests {
		r := NewRegistry(WithFoldCase(tt.fold))

		_, _ = r.Assign("Path", "a")
		_, _ = r.Assign("PATH", "b")

		if diff := cmp.Diff(tt.want, names(r)); diff != "" {
			t.Errorf("fold=%v records mismatch (-want +got):\n%s", tt.fold, diff)
		}

		wantRead := ""
		if tt.fold {
			wantRead = "b"
		}

		if got := r.Read("path"); got != wantRead {
			t.Errorf("fold=%v Read(path) = %q, want %q", tt.fold, got, wantRead)
		}
	}
}

func TestFoldCaseBootstrap(t *testing.T) {
	if env.FoldCase {
		t.Skip("host environment folds names")
	}

	bridge := env.NewMap("Path=a", "PATH=b", "HOME=/root")

	r := NewRegistry(WithFoldCase(true))
	if n := r.Bootstrap(t.Context(), bridge.Environ()); n != 2 {
		t.Errorf("Bootstrap() = %d, want 2", n)
	}

	if got := r.Read("PATH"); got != "a" {
		t.Errorf("Read(PATH) = %q, want first spelling's value a", got)
	}

	checkInvariants(t, r)

	if err := r.Teardown(t.Context(), bridge); err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	want := []string{"Path=a", "PATH=b", "HOME=/root"}
	if diff := cmp.Diff(want, bridge.Environ()); diff != "" {
		t.Errorf("environment after teardown (-want +got):\n%s", diff)
	}

	// A second session starts from the restored environment.
	r.Bootstrap(t.Context(), bridge.Environ())

	if _, err := r.Assign("path", "c"); err != nil {
		t.Fatal(err)
	}

	_ = bridge.Set("Path", "c")

	if err := r.Teardown(t.Context(), bridge); err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	if diff := cmp.Diff(want, bridge.Environ()); diff != "" {
		t.Errorf("environment after modified session (-want +got):\n%s", diff)
	}
}

func TestEnviron(t *testing.T) {
	r := NewRegistry()
	r.Bootstrap(t.Context(), []string{"A=1", "B=2"})

	_, _ = r.Remove("A")
	_, _ = r.Assign("C", "3")

	if diff := cmp.Diff([]string{"B=2", "C=3"}, r.Environ()); diff != "" {
		t.Errorf("Environ() mismatch (-want +got):\n%s", diff)
	}
}
