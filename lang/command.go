package lang

import (
	"context"
	"strings"
)

// command is a statement word accepted by [Engine.Execute]. A word matches
// if it is a prefix of name at least min bytes long.
type command struct {
	name string
	min  int
}

var commands = []command{
	{name: "echo", min: 2},
	{name: "let", min: 3},
	{name: "unlet", min: 3},
}

// Commands returns the statement words accepted by [Engine.Execute].
func Commands() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

func lookupCommand(word string) (string, bool) {
	for _, c := range commands {
		if len(word) >= c.min && strings.HasPrefix(c.name, word) {
			return c.name, true
		}
	}

	return "", false
}

// Execute executes one statement line of the form `[:]command arguments`,
// where command is let, unlet, or echo (abbreviated to ec or unl at most).
// Blank lines and lines beginning with a double quote are ignored.
//
// It returns the output of an echo statement. Offsets of parse errors are
// relative to the arguments.
func (e *Engine) Execute(ctx context.Context, line string) (string, error) {
	line = strings.TrimLeft(line, ": \t")
	if line == "" || line[0] == '"' {
		return "", nil
	}

	word, args := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		word, args = line[:i], line[i+1:]
	}

	name, ok := lookupCommand(word)
	if !ok {
		return "", ErrUnknownCommand.At(0, line)
	}

	switch name {
	case "echo":
		return e.Echo(ctx, args)
	case "unlet":
		_, err := e.Unlet(ctx, args)

		return "", err
	default:
		return "", e.Let(ctx, args)
	}
}
