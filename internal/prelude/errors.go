package prelude

import (
	"errors"
	"fmt"

	"github.com/atlanticdynamic/nosorog/internal/descriptor"
)

var (
	ErrPrelude = errors.New("prelude error")

	ErrImportResolution = fmt.Errorf("%w: import resolution failed", ErrPrelude)
	ErrClassNotFound    = fmt.Errorf("%w: class not found", ErrImportResolution)
	ErrPackageNotFound  = fmt.Errorf("%w: package has no classes", ErrImportResolution)
	ErrMemberNotFound   = fmt.Errorf("%w: static member not found", ErrImportResolution)

	ErrUnknownDialect = fmt.Errorf("%w: unknown dialect", ErrPrelude)
)

// ImportResolutionError reports an import whose target does not exist. It is fatal
// for static single-member imports and a diagnostic for every other shape.
type ImportResolutionError struct {
	Import descriptor.ImportSpec
	Err    error
}

func (e *ImportResolutionError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Import)
}

func (e *ImportResolutionError) Unwrap() error {
	return e.Err
}
