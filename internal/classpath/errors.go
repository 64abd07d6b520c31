package classpath

import (
	"errors"
	"fmt"
)

var (
	ErrClasspath      = errors.New("classpath error")
	ErrInvalidName    = fmt.Errorf("%w: invalid class name", ErrClasspath)
	ErrDuplicateClass = fmt.Errorf("%w: class already registered", ErrClasspath)
	ErrMissingType    = fmt.Errorf("%w: class has no type", ErrClasspath)
	ErrReservedMember = fmt.Errorf("%w: reserved member name", ErrClasspath)
)
