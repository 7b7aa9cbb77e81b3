package lang

// Statement is the left-hand side of a let statement and its unparsed
// right-hand side.
type Statement struct {
	Kind VarKind
	Name string
	Op   Operator
	// Expr is the text following the operator, with leading whitespace
	// removed.
	Expr string
	// Offset is the byte offset of Expr in the statement text.
	Offset int
}

// alphabet holds the character classes of a variable name.
type alphabet struct {
	first func(byte) bool
	rest  func(byte) bool
}

// envAlphabet is the alphabet of environment variable names.
var envAlphabet = alphabet{first: isEnvNameStart, rest: isEnvNameChar}

func isEnvNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isEnvNameChar(c byte) bool {
	return isEnvNameStart(c) || ('0' <= c && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// scanner walks a statement text by byte offset.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}

	return s.input[s.pos]
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.input) {
		return 0
	}

	return s.input[s.pos+n]
}

func (s *scanner) rest() string { return s.input[s.pos:] }

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.pos++
	}
}

func (s *scanner) skipNonSpace() {
	for !s.eof() && !isSpace(s.peek()) {
		s.pos++
	}
}

// fail derives an error located at the current position.
func (s *scanner) fail(e *Error) *Error {
	return e.At(s.pos, s.rest())
}

// name consumes a name of the given alphabet, at most MaxNameLen bytes.
func (s *scanner) name(a alphabet) (string, error) {
	start := s.pos

	if s.eof() || !a.first(s.peek()) {
		if !s.eof() && a.rest(s.peek()) {
			return "", s.fail(ErrInvalidName)
		}

		return "", s.fail(ErrEmptyName)
	}

	s.pos++

	for !s.eof() && s.pos-start < MaxNameLen && a.rest(s.peek()) {
		s.pos++
	}

	return s.input[start:s.pos], nil
}

// extractName consumes the sigil, optional scope prefix, and name of the
// variable a let statement targets.
func (s *scanner) extractName(opts alphabet) (VarKind, string, error) {
	switch s.peek() {
	case '$':
		s.pos++

		name, err := s.name(envAlphabet)

		return EnvVar, name, err

	case '&':
		s.pos++

		kind := AnyOption

		if s.peekAt(1) == ':' {
			switch s.peek() {
			case 'g':
				kind = GlobalOption
				s.pos += 2
			case 'l':
				kind = LocalOption
				s.pos += 2
			}
		}

		name, err := s.name(opts)

		return kind, name, err

	default:
		return 0, "", s.fail(ErrUnsupportedKind)
	}
}

// extractOperator consumes an assignment operator, including any
// surrounding whitespace.
func (s *scanner) extractOperator() (Operator, error) {
	s.skipSpace()

	op := Assign

	switch s.peek() {
	case '.':
		op = Append
	case '+':
		op = Add
	case '-':
		op = Subtract
	}

	if op != Assign {
		s.pos++
	}

	if s.peek() != '=' {
		return op, s.fail(ErrMissingEquals)
	}

	s.pos++
	s.skipSpace()

	return op, nil
}

// parseStatement parses the left-hand side and operator of a let statement.
// The name alphabet of options is given by opts.
func parseStatement(text string, opts alphabet) (Statement, error) {
	s := &scanner{input: text}
	s.skipSpace()

	kind, name, err := s.extractName(opts)
	if err != nil {
		return Statement{}, err
	}

	op, err := s.extractOperator()
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		Kind:   kind,
		Name:   name,
		Op:     op,
		Expr:   s.rest(),
		Offset: s.pos,
	}, nil
}
