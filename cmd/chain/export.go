// File: lixenwraith/chain/cmd/chain/export.go
package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/chain"
)

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "write the flattened configuration as JSON, YAML, TOML or a module file",
	ArgsUsage: "[fragment...]",
	Flags: slices.Concat(sourceFlags, []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Value: chain.FormatJSON,
			Usage: "output format: json, yaml, toml or js",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output file, format taken from its extension unless --format is set; stdout when empty",
		},
	}),
	Action: exportAction,
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := build(builderFor(cmd, cmd.Args().Slice()...))
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out != "" {
		if cmd.IsSet("format") {
			return cfg.SaveFormat(out, cmd.String("format"))
		}
		return cfg.Save(out)
	}

	doc, err := cfg.ToConfig()
	if err != nil {
		return err
	}
	data, err := chain.Export(doc, cmd.String("format"))
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
