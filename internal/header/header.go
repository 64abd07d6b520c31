// Package header extracts script metadata from the leading `/** ... */` comment
// block of a script. Lines inside the block are classified by their first token and
// parsed into typed nodes; the script text itself is returned untouched.
package header

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/scanner"
)

const (
	openDelimiter  = "/**"
	closeDelimiter = "*/"
)

// Result is the outcome of scanning a script.
type Result struct {
	// Nodes holds recognized declarations in source order.
	Nodes []Node
	// Body is the full script text, byte-identical to the input.
	Body string
	// HasHeader is true when a leading comment block was found.
	HasHeader bool
	// Diagnostics holds the non-fatal *ParseError values for skipped lines.
	Diagnostics []error
}

type parser struct {
	logger *slog.Logger
}

// Option configures Parse.
type Option func(*parser)

// WithLogger sets the logger used to report skipped header lines.
func WithLogger(logger *slog.Logger) Option {
	return func(p *parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLogHandler sets the log handler used to report skipped header lines.
func WithLogHandler(handler slog.Handler) Option {
	return func(p *parser) {
		if handler != nil {
			p.logger = slog.New(handler)
		}
	}
}

// ParseString is Parse over an in-memory script.
func ParseString(src string, opts ...Option) (*Result, error) {
	return Parse(strings.NewReader(src), opts...)
}

// Parse reads the script from r. Only a read failure is returned as an error; lines
// that fail to parse are logged, recorded in Result.Diagnostics and skipped.
//
// The header is the first `/**` block that appears before any code. Blank lines,
// comments, a `#!` line and string directives such as 'use strict' may precede it.
func Parse(r io.Reader, opts ...Option) (*Result, error) {
	p := &parser{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithGroup("header")

	var body strings.Builder
	res := &Result{}

	reader := bufio.NewReader(r)
	inside := false
	comment := false
	done := false
	lineNo := 0

	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrRead, readErr)
		}
		if raw == "" && readErr != nil {
			break
		}
		lineNo++
		body.WriteString(raw)

		line := strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimSpace(line)

		switch {
		case done:
		case comment:
			if end, ok := commentEnd(trimmed); ok {
				comment = false
				done = !precedesHeader(end)
			}
		case !inside && trimmed == openDelimiter:
			inside = true
			res.HasHeader = true
		case inside && trimmed == closeDelimiter:
			inside = false
			done = true
		case inside:
			node, err := parseLine(line, lineNo)
			if err != nil {
				p.logger.Warn("Skipping header line", "line", lineNo, "error", err)
				res.Diagnostics = append(res.Diagnostics, err)
			} else if node != nil {
				res.Nodes = append(res.Nodes, *node)
			}
		case strings.HasPrefix(trimmed, "/*"):
			end, closed := commentEnd(trimmed[2:])
			comment = !closed
			done = closed && !precedesHeader(end)
		case !precedesHeader(trimmed):
			// code before any comment block: the script has no header
			done = true
		}

		if readErr != nil {
			break
		}
	}

	res.Body = body.String()
	return res, nil
}

// precedesHeader reports whether a line outside the header may appear before it.
func precedesHeader(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#!") ||
		isDirective(trimmed)
}

// commentEnd reports whether s closes a block comment and returns what follows
// the closing delimiter.
func commentEnd(s string) (string, bool) {
	_, rest, ok := strings.Cut(s, closeDelimiter)
	return strings.TrimSpace(rest), ok
}

// isDirective matches a lone string literal statement like 'use strict'; or "use asm".
func isDirective(trimmed string) bool {
	trimmed = strings.TrimSuffix(trimmed, ";")
	if len(trimmed) < 2 {
		return false
	}
	q := trimmed[0]
	if q != '\'' && q != '"' || trimmed[len(trimmed)-1] != q {
		return false
	}
	return !strings.ContainsRune(trimmed[1:len(trimmed)-1], rune(q))
}

// parseLine classifies one line inside the header block. It returns nil, nil for
// free-form documentation.
func parseLine(line string, lineNo int) (*Node, error) {
	text := strings.TrimLeft(line, " \t*")
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return nil, nil
	}

	switch {
	case firstWord(text) == "import":
		imp, err := parseImport(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Kind: NodeImport, Err: err}
		}
		return &Node{Kind: NodeImport, Line: lineNo, Import: imp}, nil

	case strings.HasPrefix(text, "@"):
		if IsScriptMarker(firstWord(text[1:])) {
			m, err := parseScriptMarker(text)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Text: text, Kind: NodeMarker, Err: err}
			}
			return &Node{Kind: NodeMarker, Line: lineNo, Marker: m}, nil
		}
		f, err := parseField(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Kind: NodeField, Err: err}
		}
		return &Node{Kind: NodeField, Line: lineNo, Field: f}, nil
	}

	return nil, nil
}

// firstWord returns the leading identifier of s.
func firstWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

// parseImport parses `import [static] a.b.C[.*|.member][;]`.
func parseImport(text string) (*Import, error) {
	s, err := newStream(text)
	if err != nil {
		return nil, err
	}
	s.next() // import

	imp := &Import{}
	if t := s.peek(); t.tok == scanner.Ident && t.text == "static" {
		s.next()
		imp.Static = true
	}

	path, wildcard, err := s.qualifiedName(true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	if err := s.end(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	imp.Path = path
	imp.Wildcard = wildcard

	if imp.Static && !imp.Wildcard && !strings.Contains(path, ".") {
		return nil, fmt.Errorf("%w: static import %q names no member", ErrInvalidImport, path)
	}
	return imp, nil
}

// parseScriptMarker parses @Name/@Description/@Schedule (one value) and @Startup.
func parseScriptMarker(text string) (*Marker, error) {
	s, err := newStream(text)
	if err != nil {
		return nil, err
	}
	m, err := s.marker()
	if err != nil {
		return nil, err
	}
	if err := s.end(); err != nil {
		return nil, err
	}

	if m.Kind == MarkerStartup {
		return &m, nil
	}
	lit, ok := m.Value()
	if !ok || len(m.Args) != 1 {
		return nil, fmt.Errorf("%w: @%s", ErrMissingValue, m.Kind)
	}
	if _, isString := lit.Value.(string); !isString {
		return nil, fmt.Errorf("%w: @%s expects a string, found %s", ErrMissingValue, m.Kind, lit.Raw)
	}
	return &m, nil
}

// parseField parses `@Marker... Type name[;]` or `@Marker... name: Type[;]`.
func parseField(text string) (*Field, error) {
	s, err := newStream(text)
	if err != nil {
		return nil, err
	}

	f := &Field{}
	for s.peek().tok == '@' {
		m, err := s.marker()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
		}
		f.Markers = append(f.Markers, m)
	}

	first, _, err := s.qualifiedName(false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	if s.accept(':') {
		// name: Type
		if strings.Contains(first, ".") {
			return nil, fmt.Errorf("%w: variable name %q is qualified", ErrInvalidField, first)
		}
		typ, _, err := s.qualifiedName(false)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
		}
		f.Name, f.Type = first, typ
	} else {
		// Type name
		name, err := s.expect(scanner.Ident)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
		}
		f.Type, f.Name = first, name.text
	}

	if err := s.end(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidField, err)
	}
	return f, nil
}
