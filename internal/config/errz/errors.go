// Package errz provides shared error definitions for the config package and its subpackages.
package errz

import "errors"

// Top-level error categories
var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToConvertConfig  = errors.New("failed to convert config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
)

// Validation specific errors
var (
	ErrInvalidValue         = errors.New("invalid value")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
)

// Engine and script specific errors
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInvalidTimeout      = errors.New("invalid timeout")
	ErrInvalidExtension    = errors.New("invalid script extension")
)
