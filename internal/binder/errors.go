package binder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBinder = errors.New("binder error")

	ErrTypeResolution = fmt.Errorf("%w: type resolution failed", ErrBinder)
	ErrTypeNotFound   = fmt.Errorf("%w: type not found", ErrTypeResolution)
	ErrAmbiguousType  = fmt.Errorf("%w: ambiguous type", ErrTypeResolution)

	// ErrCarrierConstruction means the carrier type could not be built. Synthesis
	// aborts and no bindings are produced.
	ErrCarrierConstruction = fmt.Errorf("%w: carrier construction failed", ErrBinder)

	// ErrResolutionHost wraps any failure reported by a Resolver, including a
	// Resolver that returned something other than a carrier instance.
	ErrResolutionHost = fmt.Errorf("%w: resolution host failed", ErrBinder)

	ErrInvalidTag = fmt.Errorf("%w: invalid marker tag", ErrBinder)
)

// TypeResolutionError reports a capability whose declared type could not be
// resolved. The capability is dropped; the others are still bound.
type TypeResolutionError struct {
	Variable     string
	DeclaredType string
	// Candidates lists the matching classes when the name was ambiguous.
	Candidates []string
	Err        error
}

func (e *TypeResolutionError) Error() string {
	msg := fmt.Sprintf("%v: %s %s", e.Err, e.DeclaredType, e.Variable)
	if len(e.Candidates) > 0 {
		msg += " (candidates: " + strings.Join(e.Candidates, ", ") + ")"
	}
	return msg
}

func (e *TypeResolutionError) Unwrap() error {
	return e.Err
}
