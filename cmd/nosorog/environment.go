package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/atlanticdynamic/nosorog/internal/classpath"
	"github.com/atlanticdynamic/nosorog/internal/config"
	"github.com/atlanticdynamic/nosorog/internal/engine"
	"github.com/atlanticdynamic/nosorog/internal/hostlib"
	"github.com/atlanticdynamic/nosorog/internal/injector"
	"github.com/atlanticdynamic/nosorog/internal/prelude"
	"github.com/atlanticdynamic/nosorog/internal/script"
)

// environment is the host side shared by every script of one invocation.
type environment struct {
	language string
	registry *classpath.Registry
	loader   *script.Loader
	output   io.Writer
	handler  slog.Handler
}

func newEnvironment(cfg *config.Config, language string, output io.Writer, handler slog.Handler) (*environment, error) {
	registry, err := hostlib.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build class registry: %w", err)
	}
	host, err := classpath.NewCached(registry, classpath.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	inj := injector.New(
		injector.WithStringResources(cfg.Resources),
		injector.WithLogHandler(handler),
	)
	if err := hostlib.Provide(inj, hostlib.WithOutput(output), hostlib.WithLogHandler(handler)); err != nil {
		return nil, fmt.Errorf("failed to register library providers: %w", err)
	}

	dialect, err := prelude.DialectFor(language)
	if err != nil {
		return nil, err
	}

	return &environment{
		language: language,
		registry: registry,
		loader: script.NewLoader(host, inj,
			script.WithDialect(dialect),
			script.WithLogHandler(handler),
		),
		output:  output,
		handler: handler,
	}, nil
}

func (e *environment) newEngine() (engine.Engine, error) {
	return engine.New(e.language,
		engine.WithHost(e.registry),
		engine.WithOutput(e.output),
		engine.WithLogHandler(e.handler),
	)
}

// languageFor picks the language of a script file: the explicit flag, then the
// file extension, then the configured default.
func languageFor(flag, path string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	ext := filepath.Ext(path)
	for _, lang := range engine.Languages {
		if engine.Extension(lang) == ext {
			return lang
		}
	}
	return cfg.Engine.Language
}
