package eval

import (
	"strings"

	"github.com/ardnew/envlet/lang"
	"github.com/ardnew/envlet/option"
)

// extent returns the length of the expression at the start of text and the
// offsets, in increasing order, at which whitespace runs at bracket depth
// zero begin within it. The expression ends at the first unbalanced closing bracket or
// at the end of text. String literals are skipped.
func extent(text string) (int, []int, error) {
	var (
		depth  int
		open   []int
		breaks []int
	)

	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'', '`':
			end := skipString(text, i)
			if end < 0 {
				return 0, nil, lang.ErrMissingQuote.At(i, text[i:])
			}

			i = end

		case '(', '[', '{':
			depth++
			open = append(open, i)

		case ')', ']', '}':
			if depth == 0 {
				return i, breaks, nil
			}

			depth--
			open = open[:len(open)-1]

		case ' ', '\t', '\n', '\r':
			if depth == 0 && i > 0 && !isSpace(text[i-1]) {
				breaks = append(breaks, i)
			}
		}
	}

	if depth > 0 {
		at := open[0]

		return 0, nil, lang.ErrInvalidSubexpression.At(at, text[at:])
	}

	return len(text), breaks, nil
}

// skipString returns the offset of the quote closing the string literal
// that begins at text[start], or -1 if it is unterminated. Backslash
// escapes are honored except in raw (backquoted) strings.
func skipString(text string, start int) int {
	quote := text[start]

	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if quote != '`' {
				i++
			}
		case quote:
			return i
		}
	}

	return -1
}

// cuts returns the candidate lengths of the expression, longest first: the
// whole extent, then each prefix ending before a top-level whitespace run.
func cuts(n int, breaks []int) []int {
	out := make([]int, 0, len(breaks)+1)
	out = append(out, n)

	for i := len(breaks) - 1; i >= 0; i-- {
		if breaks[i] < n {
			out = append(out, breaks[i])
		}
	}

	return out
}

// rewrite translates variable references in src to builtin calls:
// $NAME becomes env("NAME") and &[g:|l:]NAME becomes
// option("NAME", "g"|"l"|""). String literals are copied verbatim.
func rewrite(src string) (string, error) {
	var sb strings.Builder

	sb.Grow(len(src) + 16)

	for i := 0; i < len(src); i++ {
		c := src[i]

		switch {
		case c == '"' || c == '\'' || c == '`':
			end := skipString(src, i)
			if end < 0 {
				return "", lang.ErrMissingQuote.At(i, src[i:])
			}

			sb.WriteString(src[i : end+1])
			i = end

		case c == '$':
			n := nameLen(src[i+1:], isEnvStart, isEnvChar)
			if n == 0 {
				return "", lang.ErrInvalidExpression.At(i, src[i:])
			}

			sb.WriteString(`env("` + src[i+1:i+1+n] + `")`)
			i += n

		case c == '&' && i+1 < len(src) && src[i+1] == '&':
			sb.WriteString("&&")
			i++

		case c == '&':
			scope, skip := "", 0
			if i+2 < len(src) && src[i+2] == ':' && (src[i+1] == 'g' || src[i+1] == 'l') {
				scope, skip = src[i+1:i+2], 2
			}

			rest := src[i+1+skip:]

			n := nameLen(rest, option.IsNameStart, option.IsNameChar)
			if n == 0 {
				return "", lang.ErrInvalidExpression.At(i, src[i:])
			}

			sb.WriteString(`option("` + rest[:n] + `", "` + scope + `")`)
			i += skip + n

		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}

func nameLen(s string, first, rest func(byte) bool) int {
	if s == "" || !first(s[0]) {
		return 0
	}

	n := 1
	for n < len(s) && n < lang.MaxNameLen && rest(s[n]) {
		n++
	}

	return n
}

func isEnvStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isEnvChar(c byte) bool { return isEnvStart(c) || ('0' <= c && c <= '9') }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
