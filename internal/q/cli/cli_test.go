package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func runCLI(t *testing.T, cmd *Command, args []string) (int, string, string) {
	t.Helper()
	var out bytes.Buffer
	var errOut bytes.Buffer
	code := Run(context.Background(), cmd, Options{
		Args: args,
		Out:  &out,
		Err:  &errOut,
	})
	return code, out.String(), errOut.String()
}

func TestRun_ParsesBoolAndIntFlagsInterspersedWithArgs(t *testing.T) {
	root := &Command{Name: "prog", Args: MinimumArgs(1)}
	width := root.Flags().Int("width", 'w', 0, "Override width")
	check := root.Flags().Bool("check", 'c', false, "Check only")

	var gotArgs []string
	root.Run = func(c *Context) error {
		gotArgs = append([]string(nil), c.Args...)
		return nil
	}

	code, stdout, stderr := runCLI(t, root, []string{"--check", "src/", "--width=80"})
	if code != 0 {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if stdout != "" || stderr != "" {
		t.Fatalf("expected no output; stdout=%q stderr=%q", stdout, stderr)
	}
	if !*check {
		t.Fatalf("expected check=true")
	}
	if *width != 80 {
		t.Fatalf("expected width=80, got %d", *width)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "src/" {
		t.Fatalf("expected args=[src/], got %v", gotArgs)
	}
}

func TestRun_ShorthandFlagsCanBeCombinedWithDashDash(t *testing.T) {
	root := &Command{Name: "prog"}
	showDiff := root.Flags().Bool("diff", 'd', false, "Show diff")

	var gotArgs []string
	root.Run = func(c *Context) error {
		gotArgs = append([]string(nil), c.Args...)
		return nil
	}

	code, _, stderr := runCLI(t, root, []string{"-d", "--", "-weird-file"})
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	if !*showDiff {
		t.Fatalf("expected diff=true")
	}
	if len(gotArgs) != 1 || gotArgs[0] != "-weird-file" {
		t.Fatalf("expected args to include the literal after --, got %v", gotArgs)
	}
}

func TestRun_HelpPrintsUsageForCommand(t *testing.T) {
	root := &Command{Name: "prog", Short: "Does things"}
	root.Flags().Int("width", 'w', 0, "Override width")

	code, stdout, stderr := runCLI(t, root, []string{"-h"})
	if code != 0 {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if stderr != "" {
		t.Fatalf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "prog - Does things") {
		t.Fatalf("expected help banner; stdout=%q", stdout)
	}
	if !strings.Contains(stdout, "--width") {
		t.Fatalf("expected flag listed; stdout=%q", stdout)
	}
}

func TestRun_UnknownFlagIsUsageErrorAndIncludesToken(t *testing.T) {
	root := &Command{Name: "prog", Run: func(*Context) error { return nil }}

	code, stdout, stderr := runCLI(t, root, []string{"--nope"})
	if code != 2 {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "unknown flag: --nope") {
		t.Fatalf("expected stderr to mention unknown token; stderr=%q", stderr)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Fatalf("expected usage; stderr=%q", stderr)
	}
}

func TestRun_MinimumArgsRejectsTooFewPositionalArgs(t *testing.T) {
	root := &Command{
		Name: "prog",
		Args: MinimumArgs(1),
		Run:  func(*Context) error { return nil },
	}

	code, stdout, stderr := runCLI(t, root, nil)
	if code != 2 {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "expected at least 1 arg") {
		t.Fatalf("expected arg-count message; stderr=%q", stderr)
	}
}

func TestRun_HandlerErrorDoesNotPrintUsage(t *testing.T) {
	root := &Command{
		Name: "prog",
		Run: func(*Context) error {
			return errors.New("boom")
		},
	}

	code, stdout, stderr := runCLI(t, root, nil)
	if code != 1 {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected no stdout, got %q", stdout)
	}
	if strings.Contains(stderr, "Usage:") {
		t.Fatalf("expected no usage on handler error; stderr=%q", stderr)
	}
	if strings.TrimSpace(stderr) != "boom" {
		t.Fatalf("expected error message; stderr=%q", stderr)
	}
}

func TestRun_HandlerUsageErrorPrintsUsage(t *testing.T) {
	root := &Command{Name: "prog"}
	root.Run = func(*Context) error {
		return UsageError{Message: "bad input"}
	}

	code, stdout, stderr := runCLI(t, root, nil)
	if code != 2 {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "bad input") || !strings.Contains(stderr, "Usage:") {
		t.Fatalf("expected usage error message and usage; stderr=%q", stderr)
	}
}

func TestRun_HandlerExitErrorPropagatesCode(t *testing.T) {
	root := &Command{Name: "prog"}
	root.Run = func(*Context) error {
		return ExitError{Code: 3, Err: errors.New("disk full")}
	}

	code, stdout, stderr := runCLI(t, root, nil)
	if code != 3 {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected no stdout, got %q", stdout)
	}
	if strings.TrimSpace(stderr) != "disk full" {
		t.Fatalf("expected error message; stderr=%q", stderr)
	}
}
