package cli

import "fmt"

// MinimumArgs returns an ArgsFunc that validates that at least n args are provided.
func MinimumArgs(n int) ArgsFunc {
	return func(args []string) error {
		if len(args) >= n {
			return nil
		}
		return usageErrorf("expected at least %s, got %d", pluralArgs(n), len(args))
	}
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 arg"
	}
	return fmt.Sprintf("%d args", n)
}
