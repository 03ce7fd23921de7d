package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// In/Out/Err override standard I/O. If nil, defaults are used.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Context is passed to a command handler.
//
// Positional args are in Args. Flag values are typically read via variables bound
// at command construction time (e.g. fs.Bool(...)).
type Context struct {
	context.Context

	Command *Command
	Args    []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes cmd as a CLI program and returns a process exit code.
func Run(ctx context.Context, cmd *Command, opts Options) int {
	if cmd == nil {
		panic("cli: Run called with nil command")
	}
	if cmd.Name == "" {
		panic("cli: Run called with Name empty")
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	args, parseErr := parseArgv(cmd, opts.Args, out)
	if parseErr != nil {
		if errors.Is(parseErr, errHelpPrinted) {
			return 0
		}
		printUsageError(cmd, parseErr, errOut)
		return 2
	}

	if cmd.Args != nil {
		if err := cmd.Args(args); err != nil {
			return exitForArgsError(cmd, err, errOut)
		}
	}

	if cmd.Run == nil {
		return 0
	}

	c := &Context{
		Context: ctx,
		Command: cmd,
		Args:    args,
		In:      in,
		Out:     out,
		Err:     errOut,
	}
	if err := cmd.Run(c); err != nil {
		return exitForHandlerError(cmd, err, errOut)
	}
	return 0
}

var errHelpPrinted = errors.New("help printed")

func parseArgv(cmd *Command, argv []string, out io.Writer) ([]string, error) {
	parsingEnded := false
	var positional []string

	fs := cmd.Flags()

	for i := 0; i < len(argv); i++ {
		token := argv[i]

		if parsingEnded {
			positional = append(positional, argv[i:]...)
			break
		}

		if token == "--" {
			parsingEnded = true
			continue
		}

		if token == "-h" || token == "--help" {
			writeHelp(out, cmd)
			return nil, errHelpPrinted
		}

		if isFlagToken(token) {
			consumed, err := parseFlagToken(fs, token, argv, i)
			if err != nil {
				return nil, err
			}
			i += consumed
			continue
		}

		positional = append(positional, token)
	}
	return positional, nil
}

func isFlagToken(token string) bool {
	return strings.HasPrefix(token, "-") && token != "-" // "-" is a valid positional arg.
}

func parseFlagToken(fs *FlagSet, token string, argv []string, idx int) (int, error) {
	nextValue, hasNext := nextTokenValue(argv, idx)
	hasDashDash := hasNext && nextValue == "--"
	nextPtr := (*string)(nil)
	if hasNext {
		nextPtr = &nextValue
	}

	// Long flag: --name or --name=value
	if strings.HasPrefix(token, "--") {
		name, value, hasValue := splitFlagValue(token[2:])
		var valuePtr *string
		if hasValue {
			valuePtr = &value
		}
		consumeNext, err := fs.parseAndSet(token, hasDashDash, name, 0, valuePtr, nextPtr)
		if err != nil {
			return 0, err
		}
		if consumeNext {
			return 1, nil
		}
		return 0, nil
	}

	// Short flag: -n or -n=value
	if len(token) < 2 {
		return 0, usageErrorf("unknown flag: %s", token)
	}
	shorthand := rune(token[1])
	var valuePtr *string
	if len(token) >= 3 && token[2] == '=' {
		v := token[3:]
		valuePtr = &v
	}
	consumeNext, err := fs.parseAndSet(token, hasDashDash, "", shorthand, valuePtr, nextPtr)
	if err != nil {
		return 0, err
	}
	if consumeNext {
		return 1, nil
	}
	return 0, nil
}

func splitFlagValue(s string) (name, value string, ok bool) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func nextTokenValue(argv []string, idx int) (string, bool) {
	if idx+1 >= len(argv) {
		return "", false
	}
	return argv[idx+1], true
}

func exitForHandlerError(cmd *Command, err error, errOut io.Writer) int {
	var ec ExitCoder
	if errors.As(err, &ec) {
		code := ec.ExitCode()
		if code == 2 {
			printUsageError(cmd, err, errOut)
			return 2
		}
		if code == 0 {
			return 0
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
		return code
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(errOut, msg)
	}
	return 1
}

func exitForArgsError(cmd *Command, err error, errOut io.Writer) int {
	var ec ExitCoder
	if errors.As(err, &ec) {
		code := ec.ExitCode()
		if code == 2 {
			printUsageError(cmd, err, errOut)
			return 2
		}
		if code == 0 {
			return 0
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
		return code
	}

	printUsageError(cmd, err, errOut)
	return 2
}

func printUsageError(cmd *Command, err error, errOut io.Writer) {
	msg := usageErrorMessage(err)
	if msg != "" {
		fmt.Fprintln(errOut, msg)
		fmt.Fprintln(errOut)
	}
	writeHelp(errOut, cmd)
}

func usageErrorMessage(err error) string {
	var ue UsageError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	if err == nil {
		return ""
	}
	if errors.Is(err, errHelpPrinted) {
		return ""
	}
	return err.Error()
}
