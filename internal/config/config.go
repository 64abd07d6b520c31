// Package config holds the host configuration for the nosorog CLI: logging,
// the script engine, where scripts live and the named resources handed to
// scripts that declare @Resource fields.
package config

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/atlanticdynamic/nosorog/internal/config/loader"
	"github.com/atlanticdynamic/nosorog/internal/config/logs"
	"github.com/atlanticdynamic/nosorog/internal/engine"
	"github.com/atlanticdynamic/nosorog/internal/interpolation"
)

// Defaults applied to fields the file leaves out.
const (
	DefaultTimeout  = Duration(30 * time.Second)
	DefaultDebounce = Duration(200 * time.Millisecond)
	DefaultDir      = "."
)

// Config is the validated host configuration.
type Config struct {
	Version   string
	Logging   logs.Config `env_interpolation:"yes"`
	Engine    Engine
	Scripts   Scripts           `env_interpolation:"yes"`
	Resources map[string]string `env_interpolation:"yes"`
}

// Engine selects and bounds the script engine.
type Engine struct {
	Language string
	// Timeout bounds one script run. Zero disables it.
	Timeout Duration
}

// Scripts describes the script directory used by serve.
type Scripts struct {
	Dir        string `env_interpolation:"yes"`
	Extensions []string
	Watch      bool
	Debounce   Duration
}

// NewConfig loads, interpolates and validates the file at filePath.
func NewConfig(filePath string) (*Config, error) {
	l, err := loader.NewLoaderFromFilePath(filePath)
	if err != nil {
		return nil, err
	}
	return fromLoader(l)
}

// NewConfigFromReader loads a configuration in the format named by ext
// (".toml", ".yaml" or ".yml").
func NewConfigFromReader(r io.Reader, ext string) (*Config, error) {
	loaderFunc, err := loader.LoaderFuncFor("config" + ext)
	if err != nil {
		return nil, err
	}
	l, err := loader.NewLoaderFromReader(r, loaderFunc)
	if err != nil {
		return nil, err
	}
	return fromLoader(l)
}

// NewDefaultConfig returns the configuration used when no file is given.
func NewDefaultConfig() *Config {
	cfg, _ := FromDocument(&loader.Document{Version: loader.VersionLatest})
	return cfg
}

func fromLoader(l loader.Loader) (*Config, error) {
	doc, err := l.LoadDocument()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	cfg, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToConvertConfig, err)
	}

	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return cfg, nil
}

// DefaultExtensions returns the script file extensions for a language.
func DefaultExtensions(language string) []string {
	switch language {
	case engine.LanguageRisor:
		return []string{".risor"}
	case engine.LanguageStarlark:
		return []string{".star"}
	default:
		return []string{".js"}
	}
}

// ResourcesAny returns the resources as a map usable by the injector.
func (c *Config) ResourcesAny() map[string]any {
	out := make(map[string]any, len(c.Resources))
	for k, v := range c.Resources {
		out[k] = v
	}
	return out
}

// ResourceNames returns the resource names, sorted.
func (c *Config) ResourceNames() []string {
	return slices.Sorted(maps.Keys(c.Resources))
}
