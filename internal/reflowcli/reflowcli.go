// Package reflowcli wires the reflow engine into a single-command CLI on
// top of internal/q/cli, standalone rather than nested under a larger
// command tree.
package reflowcli

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kestrel-tools/docreflow/internal/apply"
	"github.com/kestrel-tools/docreflow/internal/config"
	qcli "github.com/kestrel-tools/docreflow/internal/q/cli"
)

// Main runs the docreflow CLI with os.Args and os.Std{in,out,err}, and
// returns a process exit code.
func Main() int {
	root := newRootCommand()
	return qcli.Run(context.Background(), root, qcli.Options{Args: os.Args[1:]})
}

func newRootCommand() *qcli.Command {
	root := &qcli.Command{
		Name:  "docreflow",
		Short: "Reflow documentation comments and markdown prose to a line-width budget.",
		Args:  qcli.MinimumArgs(1),
		Example: "docreflow src/\n" +
			"docreflow --width=80 --check src/lib.rs\n" +
			"docreflow --diff README.md",
	}

	flags := root.Flags()
	const widthUnset = math.MinInt
	width := flags.Int("width", 'w', widthUnset, "Override the configured maximum line width.")
	check := flags.Bool("check", 'c', false, "Don't write files; only report which files would change.")
	showDiff := flags.Bool("diff", 'd', false, "Print a word-level diff preview of every change.")

	root.Run = func(c *qcli.Context) error {
		startDir, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg, err := config.Load(startDir)
		if err != nil {
			return qcli.ExitError{Code: 1, Err: err}
		}

		maxWidth := cfg.MaxLineLength
		if *width != widthUnset {
			if *width <= 0 {
				return qcli.UsageError{Message: fmt.Sprintf("invalid --width: must be > 0 (got %d)", *width)}
			}
			maxWidth = *width
		}

		result, err := apply.ReflowPaths(c.Args, *check, apply.Options{MaxLineLength: maxWidth})
		if err != nil {
			return qcli.ExitError{Code: 1, Err: err}
		}

		modified := append([]string(nil), result.Modified...)
		sort.Strings(modified)
		for _, abs := range modified {
			if _, err := fmt.Fprintln(c.Out, displayPath(startDir, abs)); err != nil {
				return err
			}
			if *showDiff {
				for _, d := range result.Diffs[abs] {
					if _, err := fmt.Fprintln(c.Out, d); err != nil {
						return err
					}
				}
			}
		}

		if len(result.Skipped) == 0 {
			return nil
		}
		if _, err := fmt.Fprintln(c.Err, "Warning: some files could not be reflowed:"); err != nil {
			return err
		}
		for _, s := range result.Skipped {
			if _, err := fmt.Fprintf(c.Err, "- %s\n", s); err != nil {
				return err
			}
		}
		return nil
	}

	return root
}

// displayPath renders abs relative to cwd when that doesn't escape cwd,
// falling back to the absolute path otherwise.
func displayPath(cwd, abs string) string {
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return rel
}
