package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Load a script, bind its dependencies and run it once",
		ArgsUsage: "<script>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"L"},
				Usage:   "Script language (javascript, risor, starlark); guessed from the file extension when empty",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "Bound on the run, overrides engine.timeout (0 disables)",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return cli.Exit("script path required", 1)
	}
	path := cmd.Args().Get(0)

	cfg, handler, err := setup(cmd)
	if err != nil {
		return cli.Exit(err, 1)
	}

	env, err := newEnvironment(cfg, languageFor(cmd.String("language"), path, cfg), cmd.Root().Writer, handler)
	if err != nil {
		return cli.Exit(err, 1)
	}

	s, err := env.loader.LoadFile(ctx, path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	eng, err := env.newEngine()
	if err != nil {
		return cli.Exit(err, 1)
	}

	timeout := cfg.Engine.Timeout.AsDuration()
	if cmd.IsSet("timeout") {
		timeout = cmd.Duration("timeout")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := s.RunWith(ctx, eng)
	if err != nil {
		return cli.Exit(fmt.Errorf("script %s failed: %w", s.Name(), err), 1)
	}
	if result != nil {
		if _, err := fmt.Fprintln(cmd.Root().Writer, result); err != nil {
			return err
		}
	}
	return nil
}
