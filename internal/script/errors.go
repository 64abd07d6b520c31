package script

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

var (
	ErrScript         = errors.New("script error")
	ErrLoad           = fmt.Errorf("%w: load failed", ErrScript)
	ErrNotSynthesized = fmt.Errorf("%w: script is not synthesized", ErrScript)
	ErrCanceled       = fmt.Errorf("%w: load canceled", ErrScript)
)

// Phase names the load step that failed.
type Phase string

const (
	PhaseRead     Phase = "read"
	PhaseDescribe Phase = "describe"
	PhasePrelude  Phase = "prelude"
	PhaseBind     Phase = "bind"
)

// LoadError wraps every structural failure of a load.
type LoadError struct {
	ID uuid.UUID
	// Script is the declared name, empty when the header was never described.
	Script string
	// Source is the file path or label given to the loader.
	Source string
	Phase  Phase
	Err    error
}

func (e *LoadError) Error() string {
	subject := e.Script
	if subject == "" {
		subject = e.Source
	}
	if subject == "" {
		subject = e.ID.String()
	}
	return fmt.Sprintf("%s: %s failed during %s: %v", ErrLoad, subject, e.Phase, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}
