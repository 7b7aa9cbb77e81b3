package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/envlet/lang"
	"github.com/ardnew/envlet/option"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "options", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. The sigils $ and & are not boundaries so that a variable or
// option reference is completed as one word.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'|', ',', '?', ':', ';',
		'\'', '"':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word at
// wordStart. For input "let $P = mung.pre" with the word "pre", the parent
// path is "mung". It returns "" for a word not preceded by a dot.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// isCommandWord reports whether the word at wordStart is the first word of
// a statement line.
func isCommandWord(input string, wordStart int) bool {
	return strings.TrimLeft(input[:wordStart], ": \t") == ""
}

// optionScope returns the scope selected by a "&g:" or "&l:" prefix ending
// at wordStart.
func optionScope(input string, wordStart int) (option.Scope, bool) {
	if wordStart < 3 {
		return 0, false
	}

	switch input[wordStart-3 : wordStart] {
	case "&g:":
		return option.Global, true
	case "&l:":
		return option.Local, true
	}

	return 0, false
}

// prefixMatches returns every candidate as a match of its first n bytes.
func prefixMatches(candidates []string, n int) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(candidates))

	for i, c := range candidates {
		idx := make([]int, min(n, len(c)))
		for j := range idx {
			idx[j] = j
		}

		matches[i] = fuzzy.Match{Str: c, Index: i, MatchedIndexes: idx}
	}

	return matches
}

// variableCandidates returns the visible variables whose names begin with
// the name in token, each with its sigil.
func (m model) variableCandidates(token string) []string {
	var comp lang.Completions

	m.sess.Engine.CompleteVariable(token, &comp)

	candidates := make([]string, len(comp.Candidates))
	for i, name := range comp.Candidates {
		candidates[i] = "$" + name
	}

	return candidates
}

// optionNames returns the names of the options of scope, or of either
// scope if either is set, in definition order.
func (m model) optionNames(scope option.Scope, either bool) []string {
	if m.sess.Options == nil {
		return nil
	}

	if !either {
		return m.sess.Options.Names(scope)
	}

	names := m.sess.Options.Names(option.Global)
	for _, name := range m.sess.Options.Names(option.Local) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// childCandidates returns the names that are valid completions for the given
// parent path: the top-level builtins for an empty parent, otherwise the
// members of the builtin at parent.
func (m model) childCandidates(parent string) []string {
	if parent == "" {
		var names []string
		if m.sess.Eval != nil {
			names = m.sess.Eval.Builtins()
		}

		names = append(names, exprBuiltinNames()...)
		slices.Sort(names)

		return names
	}

	v, ok := m.lookup(parent)
	if !ok {
		return nil
	}

	members, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// computeMatches calculates the match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, the
// parent path of the word, and the word boundaries.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	parent string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	none := func() (fuzzy.Matches, []string, string, int, int) {
		return nil, nil, "", wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		if word == "" {
			return none()
		}

		candidates = ctrlCommands

		return fuzzy.Find(word, candidates), candidates, "", wordStart, wordEnd
	}

	switch {
	case isCommandWord(input, ws):
		if word == "" {
			return none()
		}

		candidates = lang.Commands()

	case strings.HasPrefix(word, "$"):
		candidates = m.variableCandidates(word)

		return prefixMatches(candidates, len(word)), candidates, "", wordStart, wordEnd

	case strings.HasPrefix(word, "&"):
		candidates = m.optionNames(0, true)
		for i, name := range candidates {
			candidates[i] = "&" + name
		}

		if word == "&" {
			return prefixMatches(candidates, 1), candidates, "", wordStart, wordEnd
		}

	default:
		if scope, ok := optionScope(input, ws); ok {
			candidates = m.optionNames(scope, false)
			if word == "" {
				return prefixMatches(candidates, 0), candidates, "", wordStart, wordEnd
			}

			break
		}

		parent = parentPath(input, ws)
		candidates = m.childCandidates(parent)

		// An empty word is completed only after a dot, so that the hint
		// text stays visible.
		if word == "" {
			if parent == "" {
				return none()
			}

			return prefixMatches(candidates, 0), candidates, parent, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return none()
	}

	return fuzzy.Find(word, candidates), candidates, parent, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style. Functions are marked by isFunc.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix that is not part
// of the completion.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if function {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
