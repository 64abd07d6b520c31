package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/nosorog/internal/config"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"lint"},
		Usage:     "Validate a configuration file",
		ArgsUsage: "[config]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Show detailed tree view of the validated configuration",
			},
		},
		Action: validateAction,
	}
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return cli.Exit(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
				1,
			)
		}
		configPath = cmd.Args().Get(0)
	}

	// NewConfig validates before returning.
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return cli.Exit(fmt.Errorf("validation failed: %w", err), 1)
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "Configuration file %s is valid\n", configPath)
	if cmd.Bool("tree") {
		fmt.Fprintln(w, cfg)
		return nil
	}
	fmt.Fprintln(w, renderConfigSummary(configPath, cfg))
	return nil
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	fmt.Fprintf(&summary, "- Path: %s\n", path)
	fmt.Fprintf(&summary, "- Version: %s\n", cfg.Version)
	fmt.Fprintf(&summary, "- Language: %s\n", cfg.Engine.Language)
	fmt.Fprintf(&summary, "- Scripts: %s %s\n", cfg.Scripts.Dir, strings.Join(cfg.Scripts.Extensions, ","))
	fmt.Fprintf(&summary, "- Resources: %d\n", len(cfg.Resources))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
