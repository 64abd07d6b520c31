package loader

import (
	"errors"
	"fmt"

	"github.com/atlanticdynamic/nosorog/internal/config/errz"
)

// Loader-specific errors
var (
	ErrFailedToLoadConfig   = errz.ErrFailedToLoadConfig
	ErrNoSourceData         = errors.New("no source data provided to loader")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrParseToml            = errors.New("failed to parse TOML config")
	ErrParseYaml            = errors.New("failed to parse YAML config")
	ErrUnsupportedConfigVer = errz.ErrUnsupportedConfigVer
)

// FormatFileError creates an error with file path context
func FormatFileError(err error, path string) error {
	return fmt.Errorf("%w: %s", err, path)
}
