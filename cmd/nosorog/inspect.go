package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/nosorog/internal/logging"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"describe"},
		Usage:     "Load a script without running it and print its descriptor, bindings and prelude",
		ArgsUsage: "<script>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"L"},
				Usage:   "Script language (javascript, risor, starlark); guessed from the file extension when empty",
			},
			&cli.BoolFlag{
				Name:  "logs",
				Usage: "Replay the debug log of the load after the tree",
			},
		},
		Action: inspectAction,
	}
}

func inspectAction(ctx context.Context, cmd *cli.Command) error {
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

	w := cmd.Root().Writer
	if _, err := fmt.Fprintln(w, s); err != nil {
		return err
	}

	if cmd.Bool("logs") {
		return s.PlaybackLogs(logging.SetupHandlerText("debug", cmd.Root().ErrWriter))
	}
	return nil
}
