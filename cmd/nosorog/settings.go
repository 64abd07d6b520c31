package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/nosorog/internal/config"
	"github.com/atlanticdynamic/nosorog/internal/config/logs"
	"github.com/atlanticdynamic/nosorog/internal/logging"
)

// loadConfig applies the global flags: the dotenv file is loaded first so the
// config file can interpolate its values, then --log-level overrides the file.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if envFile := cmd.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg := config.NewDefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		cfg, err = config.NewConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if level := cmd.String("log-level"); level != "" {
		lvl, err := logs.LevelFromString(level)
		if err != nil {
			return nil, err
		}
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

// setup loads the configuration and installs its log handler as the default.
func setup(cmd *cli.Command) (*config.Config, slog.Handler, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	handler, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, handler, nil
}
