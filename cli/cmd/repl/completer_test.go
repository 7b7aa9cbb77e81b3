package repl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/envlet/option"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"command", "unl", 3, "unl", 0, 3},
		{"variable", "let $PA", 7, "$PA", 4, 7},
		{"variable_mid_list", "unlet $A $B", 8, "$A", 6, 8},
		{"option", "let &tabs", 9, "&tabs", 4, 9},
		{"scoped_option", "let &g:ts", 9, "ts", 7, 9},
		{"member", "echo mung.pre", 13, "pre", 10, 13},
		{"after_quote", "let $A = 'x", 11, "x", 10, 11},
		{"after_paren", "echo env(na", 11, "na", 9, 11},
		{"empty_at_boundary", "let $A = ", 9, "", 9, 9},
		{"empty_after_dot", "echo mung.", 10, "", 10, 10},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"cursor_past_end", "echo", 10, "echo", 0, 4},
		{"empty", "", 0, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "echo mu", 5, ""},
		{"member", "echo mung.", 10, "mung"},
		{"member_partial", "echo mung.pre", 10, "mung"},
		{"deep_chain", "echo a.b.c.", 11, "a.b.c"},
		{"after_paren", "echo (mung.", 11, "mung"},
		{"after_operator", "let $A = $B + platform.", 23, "platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestIsCommandWord(t *testing.T) {
	tests := []struct {
		input     string
		wordStart int
		want      bool
	}{
		{"let", 0, true},
		{":let", 1, true},
		{" : unl", 3, true},
		{"let $A", 4, false},
	}

	for _, tt := range tests {
		if got := isCommandWord(tt.input, tt.wordStart); got != tt.want {
			t.Errorf("isCommandWord(%q, %d) = %v, want %v",
				tt.input, tt.wordStart, got, tt.want)
		}
	}
}

func TestOptionScope(t *testing.T) {
	tests := []struct {
		input     string
		wordStart int
		want      option.Scope
		wantOK    bool
	}{
		{"let &g:ts", 7, option.Global, true},
		{"let &l:ts", 7, option.Local, true},
		{"let &x:ts", 7, 0, false},
		{"g:", 2, 0, false},
	}

	for _, tt := range tests {
		got, ok := optionScope(tt.input, tt.wordStart)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("optionScope(%q, %d) = (%v, %v), want (%v, %v)",
				tt.input, tt.wordStart, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPrefixMatches(t *testing.T) {
	got := prefixMatches([]string{"$FOO", "$F"}, 3)

	want := fuzzy.Matches{
		{Str: "$FOO", Index: 0, MatchedIndexes: []int{0, 1, 2}},
		{Str: "$F", Index: 1, MatchedIndexes: []int{0, 1}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prefixMatches() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
	}{
		{"command", modeStmt, "unl", []string{"unlet"}},
		{"command_after_colon", modeStmt, ":ec", []string{"echo"}},
		{"no_command_hint", modeStmt, "", nil},
		{"variable", modeStmt, "let $FO", []string{"$FOO", "$FOOBAR"}},
		{"variable_unlet", modeStmt, "unlet $BAR $FOOB", []string{"$FOOBAR"}},
		{"variable_none", modeStmt, "let $Z", nil},
		{"option", modeStmt, "let &ta", []string{"&tabstop"}},
		{"global_option", modeStmt, "let &g:tab", []string{"tabstop"}},
		{"local_option", modeStmt, "let &l:dot", []string{"dotfiles"}},
		{"global_only_local_name", modeStmt, "let &g:dot", nil},
		{"member", modeStmt, "echo mung.", []string{"prefix"}},
		{"builtin", modeStmt, "echo pathse", []string{"pathsep"}},
		{"empty_word", modeStmt, "let $A = ", nil},
		{"ctrl", modeCtrl, "opt", []string{"options"}},
		{"ctrl_empty", modeCtrl, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.mode = tt.mode
			setInput(&m, tt.input)

			matches, _, _, _, _ := m.computeMatches()

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("computeMatches(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCycle(t *testing.T) {
	m := newTestModel(t)
	setInput(&m, "let $F")
	refreshMatches(&m, false)

	steps := []struct {
		dir  int
		want string
	}{
		{1, "let $FOO"},
		{1, "let $FOOBAR"},
		{1, "let $FOO"},
		{-1, "let $FOOBAR"},
	}

	for i, step := range steps {
		m = m.cycle(step.dir)
		if got := m.input.Value(); got != step.want {
			t.Fatalf("step %d: input = %q, want %q", i, got, step.want)
		}
	}

	if !m.tabActive {
		t.Error("tab cycling not active")
	}

	setInput(&m, "let $FOOB")
	m.tabActive = false
	refreshMatches(&m, false)

	m = m.cycle(1)
	if got := m.input.Value(); got != "let $FOOBAR" || m.tabActive {
		t.Errorf("sole candidate: input = %q, tabActive = %v", got, m.tabActive)
	}
}
