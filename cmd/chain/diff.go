// File: lixenwraith/chain/cmd/chain/diff.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/urfave/cli/v3"
)

var diffCommand = &cli.Command{
	Name:      "diff",
	Usage:     "compare the rendering of two fragment sets",
	ArgsUsage: "<from> <to>",
	Flags: slices.Concat(sourceFlags, []cli.Flag{
		&cli.StringFlag{
			Name:  "color",
			Value: "auto",
			Usage: "colorize output: auto, always or never",
		},
	}),
	Action: diffAction,
}

func diffAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("diff takes exactly two fragment files, got %d", cmd.Args().Len())
	}
	colors, err := colorsFor(cmd.String("color"), os.Stdout)
	if err != nil {
		return err
	}

	from, err := renderFile(cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	to, err := renderFile(cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	if writeLineDiff(os.Stdout, from, to, colors != nil) {
		return cli.Exit("", 1)
	}
	return nil
}

// renderFile renders the shared sources followed by the fragment at path
func renderFile(cmd *cli.Command, path string) (string, error) {
	cfg, err := build(builderFor(cmd, path))
	if err != nil {
		return "", err
	}
	return cfg.ToString()
}

// writeLineDiff writes a unified line diff of from and to and reports
// whether they differ
func writeLineDiff(w io.Writer, from, to string, colored bool) bool {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	add, del := fmt.Sprint, fmt.Sprint
	if colored {
		add = color.New(color.FgGreen).Sprint
		del = color.New(color.FgRed).Sprint
	}

	changed := false
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffpatch.DiffInsert:
				changed = true
				fmt.Fprintln(w, add("+ "+line))
			case diffpatch.DiffDelete:
				changed = true
				fmt.Fprintln(w, del("- "+line))
			case diffpatch.DiffEqual:
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
	return changed
}
