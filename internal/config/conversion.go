package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/atlanticdynamic/nosorog/internal/config/errz"
	"github.com/atlanticdynamic/nosorog/internal/config/loader"
	"github.com/atlanticdynamic/nosorog/internal/config/logs"
	"github.com/atlanticdynamic/nosorog/internal/engine"
)

// FromDocument converts a decoded file into a Config and applies defaults.
// Values that cannot be parsed are reported together.
func FromDocument(doc *loader.Document) (*Config, error) {
	var errs []error

	logging, err := logs.FromStrings(doc.Logging.Format, doc.Logging.Level, doc.Logging.Output)
	if err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	cfg := &Config{
		Version: doc.Version,
		Logging: logging.WithDefaults(),
		Engine: Engine{
			Language: doc.Engine.Language,
			Timeout:  DefaultTimeout,
		},
		Scripts: Scripts{
			Dir:        doc.Scripts.Dir,
			Extensions: slices.Clone(doc.Scripts.Extensions),
			Watch:      doc.Scripts.Watch,
			Debounce:   DefaultDebounce,
		},
		Resources: maps.Clone(doc.Resources),
	}

	if cfg.Engine.Language == "" {
		cfg.Engine.Language = engine.LanguageJavaScript
	}
	if doc.Engine.Timeout != "" {
		d, err := ParseDuration(doc.Engine.Timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("engine.timeout: %w: %w", errz.ErrInvalidTimeout, err))
		}
		cfg.Engine.Timeout = d
	}
	if doc.Scripts.Debounce != "" {
		d, err := ParseDuration(doc.Scripts.Debounce)
		if err != nil {
			errs = append(errs, fmt.Errorf("scripts.debounce: %w: %w", errz.ErrInvalidValue, err))
		}
		cfg.Scripts.Debounce = d
	}
	if cfg.Scripts.Dir == "" {
		cfg.Scripts.Dir = DefaultDir
	}
	if len(cfg.Scripts.Extensions) == 0 {
		cfg.Scripts.Extensions = DefaultExtensions(cfg.Engine.Language)
	}
	if cfg.Resources == nil {
		cfg.Resources = map[string]string{}
	}

	return cfg, errors.Join(errs...)
}
