// Package uniwidth computes the display column width of text the way a
// monospace terminal would render it: ASCII printable runes count for one
// column, emoji and East-Asian-wide runes count for two, and combining marks
// and control characters count for zero. Unlike a locale-sensitive width
// table, the policy here is fixed — the reflow engine has no notion of the
// caller's locale, so ambiguous-width runes are never widened and emoji are
// always treated as wide.
package uniwidth

import (
	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

var cond = newCondition()

func newCondition() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false    // don't widen merely-ambiguous runes
	c.StrictEmojiNeutral = false // do widen emoji, regardless of locale
	return c
}

// Width returns the display column width of s.
func Width(s string) int {
	return cond.StringWidth(s)
}

// RuneWidth returns the display column width of a single rune.
func RuneWidth(r rune) int {
	return cond.RuneWidth(r)
}

// GraphemeWidths splits s into its grapheme clusters (so a base rune plus
// its combining marks, or a flag/ZWJ emoji sequence, move together) and
// returns the width of each cluster alongside its byte range in s.
func GraphemeWidths(s string) []GraphemeWidth {
	iter := graphemes.FromString(s)
	var out []GraphemeWidth
	for iter.Next() {
		out = append(out, GraphemeWidth{
			Value: iter.Value(),
			Start: iter.Start(),
			End:   iter.End(),
			Width: cond.StringWidth(iter.Value()),
		})
	}
	return out
}

// GraphemeWidth is one grapheme cluster of a string together with its
// display width and byte range within the original string.
type GraphemeWidth struct {
	Value string
	Start int
	End   int
	Width int
}
