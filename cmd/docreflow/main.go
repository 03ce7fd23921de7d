// Command docreflow reflows Rust-like doc comments and standalone markdown
// documents to a configured line-width budget.
package main

import (
	"os"

	"github.com/kestrel-tools/docreflow/internal/reflowcli"
)

func main() {
	os.Exit(reflowcli.Main())
}
