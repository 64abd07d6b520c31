package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/nosorog/internal/runner"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run every @Startup script in the script directory and keep running until signaled",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Script directory, overrides scripts.dir",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rerun startup scripts when the directory changes, overrides scripts.watch",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, handler, err := setup(cmd)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if dir := cmd.String("dir"); dir != "" {
		cfg.Scripts.Dir = dir
	}
	if cmd.IsSet("watch") {
		cfg.Scripts.Watch = cmd.Bool("watch")
	}

	env, err := newEnvironment(cfg, cfg.Engine.Language, cmd.Root().Writer, handler)
	if err != nil {
		return cli.Exit(err, 1)
	}

	logger := slog.Default()

	scriptRunner, err := runner.NewRunner(cfg, env.loader, env.newEngine,
		runner.WithLogger(logger.With("component", "runner")),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create runner: %w", err), 1)
	}

	super, err := supervisor.New(
		supervisor.WithRunnables(scriptRunner),
		supervisor.WithLogHandler(handler),
		supervisor.WithContext(ctx),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create supervisor: %w", err), 1)
	}
	if err := super.Run(); err != nil {
		return cli.Exit(fmt.Errorf("failed to run server: %w", err), 1)
	}

	logger.Info("Server shutdown complete")
	return nil
}
