package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/config/errz"
	"github.com/atlanticdynamic/nosorog/internal/config/loader"
	"github.com/atlanticdynamic/nosorog/internal/engine"
)

var resourceName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if c.Version != loader.VersionLatest {
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, c.Version)
	}

	errs := []error{}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	errs = append(errs, c.Engine.validate()...)
	errs = append(errs, c.Scripts.validate()...)

	for _, name := range c.ResourceNames() {
		if !resourceName.MatchString(name) {
			errs = append(errs, fmt.Errorf("resources: %w: %q", errz.ErrInvalidIdentifier, name))
		}
	}

	return errors.Join(errs...)
}

func (e Engine) validate() []error {
	var errs []error
	if !slices.Contains(engine.Languages, e.Language) {
		errs = append(errs, fmt.Errorf("engine.language: %w: %q", errz.ErrUnsupportedLanguage, e.Language))
	}
	if e.Timeout < 0 {
		errs = append(errs, fmt.Errorf("engine.timeout: %w: %s", errz.ErrInvalidTimeout, e.Timeout))
	}
	return errs
}

func (s Scripts) validate() []error {
	var errs []error
	if s.Dir == "" {
		errs = append(errs, fmt.Errorf("scripts.dir: %w", errz.ErrMissingRequiredField))
	}
	if len(s.Extensions) == 0 {
		errs = append(errs, fmt.Errorf("scripts.extensions: %w", errz.ErrMissingRequiredField))
	}
	for _, ext := range s.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("scripts.extensions: %w: %q", errz.ErrInvalidExtension, ext))
		}
	}
	if s.Debounce < 0 {
		errs = append(errs, fmt.Errorf("scripts.debounce: %w: %s", errz.ErrInvalidValue, s.Debounce))
	}
	return errs
}

// HasExtension reports whether path ends in one of the script extensions.
func (s Scripts) HasExtension(path string) bool {
	for _, ext := range s.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
