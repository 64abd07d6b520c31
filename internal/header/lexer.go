package header

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

type token struct {
	tok  rune
	text string
}

func (t token) String() string {
	if t.tok == scanner.EOF {
		return "EOF"
	}
	return t.text
}

// tokenize splits one header line into tokens. Comments are not recognized inside
// header lines; character literals are not supported.
func tokenize(line string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(line))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanRawStrings
	s.Filename = "header"

	var scanErr error
	s.Error = func(_ *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("%w: %s", ErrUnexpectedToken, msg)
		}
	}

	var toks []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		toks = append(toks, token{tok: tok, text: s.TokenText()})
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return toks, nil
}

// stream is a cursor over a tokenized header line.
type stream struct {
	toks []token
	pos  int
}

func newStream(line string) (*stream, error) {
	toks, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	return &stream{toks: toks}, nil
}

func (s *stream) peek() token {
	if s.pos >= len(s.toks) {
		return token{tok: scanner.EOF}
	}
	return s.toks[s.pos]
}

func (s *stream) next() token {
	t := s.peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

func (s *stream) accept(tok rune) bool {
	if s.peek().tok == tok {
		s.pos++
		return true
	}
	return false
}

func (s *stream) expect(tok rune) (token, error) {
	t := s.next()
	if t.tok != tok {
		return t, fmt.Errorf("%w: expected %s, found %s", ErrUnexpectedToken, scanner.TokenString(tok), t)
	}
	return t, nil
}

// end consumes an optional trailing semicolon and requires the end of the line.
func (s *stream) end() error {
	s.accept(';')
	if t := s.peek(); t.tok != scanner.EOF {
		return fmt.Errorf("%w: trailing %s", ErrUnexpectedToken, t)
	}
	return nil
}

// qualifiedName reads Ident ('.' Ident)*. When allowStar is set a final `.*` is
// accepted and reported through the wildcard result.
func (s *stream) qualifiedName(allowStar bool) (name string, wildcard bool, err error) {
	first, err := s.expect(scanner.Ident)
	if err != nil {
		return "", false, err
	}
	parts := []string{first.text}
	for s.peek().tok == '.' {
		s.next()
		t := s.next()
		switch {
		case t.tok == scanner.Ident:
			parts = append(parts, t.text)
		case t.tok == '*' && allowStar:
			return strings.Join(parts, "."), true, nil
		default:
			return "", false, fmt.Errorf("%w: expected identifier after '.', found %s", ErrUnexpectedToken, t)
		}
	}
	return strings.Join(parts, "."), false, nil
}

// literal reads one marker argument value.
func (s *stream) literal() (Literal, error) {
	t := s.next()
	switch t.tok {
	case scanner.String, scanner.RawString:
		v, err := strconv.Unquote(t.text)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: bad string %s: %w", ErrUnexpectedToken, t.text, err)
		}
		return Literal{Raw: t.text, Value: v}, nil
	case scanner.Int:
		v, err := strconv.ParseInt(t.text, 0, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: bad integer %s: %w", ErrUnexpectedToken, t.text, err)
		}
		return Literal{Raw: t.text, Value: v}, nil
	case scanner.Float:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: bad number %s: %w", ErrUnexpectedToken, t.text, err)
		}
		return Literal{Raw: t.text, Value: v}, nil
	case '-':
		lit, err := s.literal()
		if err != nil {
			return Literal{}, err
		}
		switch v := lit.Value.(type) {
		case int64:
			return Literal{Raw: "-" + lit.Raw, Value: -v}, nil
		case float64:
			return Literal{Raw: "-" + lit.Raw, Value: -v}, nil
		}
		return Literal{}, fmt.Errorf("%w: '-' before %s", ErrUnexpectedToken, lit.Raw)
	case scanner.Ident:
		switch t.text {
		case "true":
			return Literal{Raw: t.text, Value: true}, nil
		case "false":
			return Literal{Raw: t.text, Value: false}, nil
		}
		// bare, possibly qualified, identifier such as an enum constant
		name := t.text
		for s.peek().tok == '.' {
			s.next()
			id, err := s.expect(scanner.Ident)
			if err != nil {
				return Literal{}, err
			}
			name += "." + id.text
		}
		return Literal{Raw: name, Value: name}, nil
	}
	return Literal{}, fmt.Errorf("%w: expected literal, found %s", ErrUnexpectedToken, t)
}

// marker reads `@Kind` with an optional argument list.
func (s *stream) marker() (Marker, error) {
	if _, err := s.expect('@'); err != nil {
		return Marker{}, err
	}
	kind, err := s.expect(scanner.Ident)
	if err != nil {
		return Marker{}, err
	}
	m := Marker{Kind: kind.text}
	if !s.accept('(') {
		return m, nil
	}
	m.Args = make(map[string]Literal)
	if s.accept(')') {
		return m, nil
	}

	// key = value pairs, or a single value
	if s.peek().tok == scanner.Ident && s.pos+1 < len(s.toks) && s.toks[s.pos+1].tok == '=' {
		for {
			key, err := s.expect(scanner.Ident)
			if err != nil {
				return Marker{}, err
			}
			if _, err := s.expect('='); err != nil {
				return Marker{}, err
			}
			lit, err := s.literal()
			if err != nil {
				return Marker{}, err
			}
			if _, dup := m.Args[key.text]; dup {
				return Marker{}, fmt.Errorf("%w: duplicate argument %q", ErrUnexpectedToken, key.text)
			}
			m.Args[key.text] = lit
			if !s.accept(',') {
				break
			}
		}
	} else {
		lit, err := s.literal()
		if err != nil {
			return Marker{}, err
		}
		m.Args[ValueArg] = lit
	}

	if _, err := s.expect(')'); err != nil {
		return Marker{}, err
	}
	return m, nil
}
