package engine

import (
	"errors"
	"fmt"
)

var (
	ErrEngine              = errors.New("engine error")
	ErrUnsupportedLanguage = fmt.Errorf("%w: unsupported language", ErrEngine)
	ErrInvalidBinding      = fmt.Errorf("%w: invalid binding", ErrEngine)
	ErrCompile             = fmt.Errorf("%w: compilation failed", ErrEngine)
	ErrInterrupted         = fmt.Errorf("%w: evaluation interrupted", ErrEngine)
	ErrUnknownClass        = fmt.Errorf("%w: unknown class", ErrEngine)
)

// ScriptError is an exception raised by the script itself.
type ScriptError struct {
	Message string
	Err     error
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
