package lang

import "strings"

// CompletionSink receives completion candidates.
type CompletionSink interface {
	// AddCandidate adds a candidate to the current group.
	AddCandidate(text string)
	// EndGroup closes the current group of candidates.
	EndGroup()
	// AddFallback adds the candidate offered after all groups.
	AddFallback(text string)
}

// CompleteVariable completes a variable token such as "$PA" and returns the
// offset in token at which the candidates replace it.
//
// An environment variable token yields the names of the visible variables
// beginning with its name, in storage order, followed by a fallback equal
// to token itself. Any other token yields itself as the only candidate.
func (e *Engine) CompleteVariable(token string, sink CompletionSink) int {
	prefix, ok := strings.CutPrefix(token, "$")
	if !ok {
		sink.AddCandidate(token)

		return 0
	}

	for rec := range e.vars.All() {
		if rec.Live() && e.vars.hasPrefix(rec.Name, prefix) {
			sink.AddCandidate(rec.Name)
		}
	}

	sink.EndGroup()
	sink.AddFallback(token)

	return 1
}

// Complete completes the last whitespace-separated word of a statement
// line and returns the offset in line at which the candidates replace it.
func (e *Engine) Complete(line string, sink CompletionSink) int {
	start := strings.LastIndexAny(line, " \t") + 1

	return start + e.CompleteVariable(line[start:], sink)
}

// Completions collects candidates in the order they are offered.
// The zero value is ready to use.
type Completions struct {
	Candidates []string
	// Groups holds the number of candidates in each closed group.
	Groups   []int
	Fallback string
	// HasFallback reports whether a fallback was added.
	HasFallback bool

	open int
}

// AddCandidate implements [CompletionSink].
func (c *Completions) AddCandidate(text string) {
	c.Candidates = append(c.Candidates, text)
	c.open++
}

// EndGroup implements [CompletionSink].
func (c *Completions) EndGroup() {
	c.Groups = append(c.Groups, c.open)
	c.open = 0
}

// AddFallback implements [CompletionSink].
func (c *Completions) AddFallback(text string) {
	c.Fallback = text
	c.HasFallback = true
}

// Items returns every candidate, followed by the fallback if any.
func (c *Completions) Items() []string {
	items := make([]string, 0, len(c.Candidates)+1)
	items = append(items, c.Candidates...)

	if c.HasFallback {
		items = append(items, c.Fallback)
	}

	return items
}

// Reset discards all candidates.
func (c *Completions) Reset() { *c = Completions{} }
