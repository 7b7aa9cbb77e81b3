package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/envlet/pkg"
)

// Unlet unsets each environment variable named in text, a list of $NAME
// tokens separated by whitespace.
//
// A malformed or unknown token is reported and skipped, and processing
// continues with the next token. A name followed directly by characters
// outside the name alphabet aborts the statement with
// [ErrTrailingCharacters]; tokens before it have already been processed.
//
// It returns the number of failed tokens and an error listing each failure
// in order, or zero and nil.
func (e *Engine) Unlet(ctx context.Context, text string) (int, error) {
	var errs pkg.Error

	s := &scanner{input: text}

	for {
		s.skipSpace()

		if s.eof() {
			break
		}

		if s.peek() != '$' {
			errs = append(errs, s.fail(ErrUnsupportedKind))
			s.skipNonSpace()

			continue
		}

		start := s.pos
		s.pos++

		for !s.eof() && s.pos-start <= MaxNameLen && isEnvNameChar(s.peek()) {
			s.pos++
		}

		name := s.input[start+1 : s.pos]

		if !s.eof() && !isSpace(s.peek()) {
			errs = append(errs, s.fail(ErrTrailingCharacters))

			break
		}

		if name == "" {
			errs = append(errs, ErrEmptyName.At(start, s.input[start:s.pos]))

			continue
		}

		rec, err := e.vars.Remove(name)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := e.bridge.Unset(rec.Name); err != nil {
			e.logger.WarnContext(ctx, "environment not updated",
				slog.String("name", rec.Name), slog.Any("error", err))
		}

		e.logger.TraceContext(ctx, "unlet",
			slog.String("name", rec.Name),
			slog.Bool("inherited", rec.Inherited))
	}

	if len(errs) == 0 {
		return 0, nil
	}

	e.logger.DebugContext(ctx, "unlet failed", slog.Int("errors", len(errs)))

	return len(errs), errs
}
