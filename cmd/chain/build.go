// File: lixenwraith/chain/cmd/chain/build.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/chain"
)

// Reference is the stand-in constructed for a string plugin reference.
// The command line has no module loader, so the path and arguments are kept.
type Reference struct {
	Plugin string `json:"plugin"`
	Args   []any  `json:"args,omitempty"`
}

// referenceResolver resolves every path to a constructor recording the call
func referenceResolver() chain.Resolver {
	return chain.ResolverFunc(func(path string) (any, error) {
		return func(args ...any) *Reference {
			return &Reference{Plugin: path, Args: args}
		}, nil
	})
}

var sourceFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "fragment file (JSON, YAML or TOML), merged in order",
	},
	&cli.BoolFlag{
		Name:  "discover",
		Usage: "also search the working and XDG config directories for chain.{json,yaml,toml}",
	},
	&cli.StringFlag{
		Name:  "env-prefix",
		Value: "CHAIN_",
		Usage: "prefix for environment overrides",
	},
	&cli.StringSliceFlag{
		Name:  "env",
		Usage: "dotted path read from the environment, e.g. output.path",
	},
	&cli.StringSliceFlag{
		Name:    "set",
		Aliases: []string{"s"},
		Usage:   "override as path=value, e.g. mode=production",
	},
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return ctx, nil
}

// builderFor assembles a builder from the source flags and the given files
func builderFor(cmd *cli.Command, files ...string) *chain.Builder {
	b := chain.NewBuilder().
		WithLogger(slog.Default()).
		WithResolver(referenceResolver())

	if cmd.Bool("discover") {
		b.WithFileDiscovery(chain.DefaultDiscoveryOptions("chain"))
	}
	b.WithFiles(files...)
	b.WithFiles(cmd.StringSlice("file")...)

	if paths := cmd.StringSlice("env"); len(paths) > 0 {
		b.WithEnvPrefix(cmd.String("env-prefix")).WithEnvWhitelist(paths...)
	}

	var args []string
	for _, kv := range cmd.StringSlice("set") {
		args = append(args, "--"+kv)
	}
	return b.WithArgs(args)
}

// build runs b, treating missing fragment files as fatal on the command line
func build(b *chain.Builder) (*chain.Config, error) {
	cfg, err := b.Build()
	if err != nil {
		if errors.Is(err, chain.ErrConfigNotFound) {
			return nil, fmt.Errorf("fragment missing: %w", err)
		}
		return nil, err
	}
	return cfg, nil
}

// colorsFor returns the palette for mode, nil when output is uncolored
func colorsFor(mode string, f *os.File) (*chain.Colors, error) {
	switch strings.ToLower(mode) {
	case "always":
		color.NoColor = false
		return chain.NewColors(), nil
	case "never":
		return nil, nil
	case "", "auto":
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			color.NoColor = false
			return chain.NewColors(), nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("invalid color mode %q", mode)
}
