package injector

import (
	"errors"
	"fmt"
)

var (
	ErrInjector = errors.New("injector error")

	ErrDuplicateProvider = fmt.Errorf("%w: provider already registered", ErrInjector)
	ErrInvalidProvider   = fmt.Errorf("%w: invalid provider", ErrInjector)
	ErrUnsatisfied       = fmt.Errorf("%w: no provider for type", ErrInjector)
	ErrAmbiguousProvider = fmt.Errorf("%w: more than one provider matches", ErrInjector)
	ErrProviderFailed    = fmt.Errorf("%w: provider failed", ErrInjector)
	ErrResourceNotFound  = fmt.Errorf("%w: resource not found", ErrInjector)
	ErrResourceType      = fmt.Errorf("%w: resource has wrong type", ErrInjector)
	ErrInit              = fmt.Errorf("%w: init failed", ErrInjector)
	ErrPostConstruct     = fmt.Errorf("%w: post construct hook failed", ErrInjector)
	ErrBadCarrier        = fmt.Errorf("%w: malformed carrier", ErrInjector)
)

// SlotError reports the slot that could not be populated.
type SlotError struct {
	Carrier string
	Binding string
	Err     error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Carrier, e.Binding, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}
