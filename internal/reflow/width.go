package reflow

import "github.com/kestrel-tools/docreflow/internal/uniwidth"

// displayWidth returns the display column width of s, accounting for
// East-Asian-wide and emoji runes per internal/uniwidth's fixed policy.
func displayWidth(s string) int {
	return uniwidth.Width(s)
}
