package cli

// RunFunc is a command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. It should return a UsageError (or any
// ExitCoder with code 2) for user-facing usage mistakes.
type ArgsFunc func(args []string) error

// Command defines a single flat CLI command: docreflow has no subcommand
// tree, so there is no parent/child linkage here, only a name, its flags,
// and its handler.
type Command struct {
	Name string

	Short   string
	Long    string
	Example string

	Args ArgsFunc // optional
	Run  RunFunc  // optional

	localFlags *FlagSet
}

// Flags returns c's flags, creating the set on first use.
func (c *Command) Flags() *FlagSet {
	if c.localFlags == nil {
		c.localFlags = newFlagSet()
	}
	return c.localFlags
}
