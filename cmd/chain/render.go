// File: lixenwraith/chain/cmd/chain/render.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/chain"
)

var renderCommand = &cli.Command{
	Name:      "render",
	Usage:     "print the flattened configuration as annotated source",
	ArgsUsage: "[fragment...]",
	Flags: slices.Concat(sourceFlags, []cli.Flag{
		&cli.StringFlag{
			Name:  "color",
			Value: "auto",
			Usage: "colorize output: auto, always or never",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "print long function names in full",
		},
		&cli.StringFlag{
			Name:  "prefix",
			Value: "config",
			Usage: "root name used in provenance comments",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "re-render whenever a fragment file changes",
		},
		&cli.DurationFlag{
			Name:  "poll",
			Value: chain.DefaultPollInterval,
			Usage: "file polling interval in watch mode",
		},
	}),
	Action: renderAction,
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	colors, err := colorsFor(cmd.String("color"), os.Stdout)
	if err != nil {
		return err
	}
	opts := []chain.StringOption{
		chain.Verbose(cmd.Bool("verbose")),
		chain.Prefix(cmd.String("prefix")),
		chain.Colorize(colors),
	}

	b := builderFor(cmd, cmd.Args().Slice()...)
	cfg, err := build(b)
	if err != nil {
		return err
	}
	if err := printConfig(cfg, opts); err != nil {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}

	if len(b.Files()) == 0 {
		return fmt.Errorf("--watch needs at least one fragment file")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchOpts := chain.DefaultWatchOptions()
	watchOpts.PollInterval = cmd.Duration("poll")
	watchOpts.Debounce = 200 * time.Millisecond
	watchOpts.Logger = slog.Default()

	w := b.Watch(ctx, watchOpts)
	defer w.Stop()
	reloads := w.Subscribe()

	slog.Info("Watching fragment files", "files", b.Files())
	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down")
			return nil
		case r, ok := <-reloads:
			if !ok {
				return nil
			}
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Fprintf(os.Stdout, "\n// rebuilt after change to %s\n", r.Path)
			if err := printConfig(r.Config, opts); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
	}
}

func printConfig(cfg *chain.Config, opts []chain.StringOption) error {
	text, err := cfg.ToString(opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, text)
	return err
}
