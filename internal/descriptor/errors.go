package descriptor

import (
	"errors"
	"fmt"
)

var (
	ErrDescriptor = errors.New("descriptor error")

	// ErrMissingName means the header had no @Name. No Script can be built.
	ErrMissingName = fmt.Errorf("%w: script has no @Name", ErrDescriptor)

	// ErrDuplicateField means two capability fields share a variable name.
	ErrDuplicateField = fmt.Errorf("%w: duplicate capability variable", ErrDescriptor)

	ErrDuplicateMarker = fmt.Errorf("%w: marker repeated, first kept", ErrDescriptor)
	ErrUnknownMarker   = fmt.Errorf("%w: unknown script marker", ErrDescriptor)
	ErrNoCapability    = fmt.Errorf("%w: field has no capability marker", ErrDescriptor)
)

// NodeError is a non-fatal problem with one header node.
type NodeError struct {
	Line int
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
