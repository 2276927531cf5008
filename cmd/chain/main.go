// File: lixenwraith/chain/cmd/chain/main.go

// Command chain assembles bundler configuration fragments and renders,
// exports or compares the flattened result.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "chain",
		Usage: "assemble and inspect bundler configuration fragments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level: debug, info, warn or error",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			renderCommand,
			exportCommand,
			diffCommand,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
