package header

import (
	"errors"
	"fmt"
)

var (
	// ErrHeader is the base error for header parsing.
	ErrHeader = errors.New("header error")

	// ErrRead indicates the script source could not be read. It aborts parsing.
	ErrRead = fmt.Errorf("%w: read failed", ErrHeader)

	// ErrSyntax is wrapped by every per-line ParseError.
	ErrSyntax = fmt.Errorf("%w: syntax error", ErrHeader)

	ErrUnexpectedToken = fmt.Errorf("%w: unexpected token", ErrSyntax)
	ErrMissingValue    = fmt.Errorf("%w: marker requires a value", ErrSyntax)
	ErrInvalidImport   = fmt.Errorf("%w: invalid import", ErrSyntax)
	ErrInvalidField    = fmt.Errorf("%w: invalid field declaration", ErrSyntax)
)

// ParseError reports a header line that matched a recognized shape but could not be
// parsed. It is non-fatal: the line is skipped and parsing continues.
type ParseError struct {
	Line int
	Text string
	Kind NodeKind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %v: %q", e.Line, e.Kind, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
