// Package diffpreview renders a word-level preview of a single Suggestion:
// what prose a reflow would replace, and what it would become.
package diffpreview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an operation from old text to new text.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

// Span is one diffed segment between a suggestion's old and new text. Its
// text may contain newlines, since both the original and the reflowed
// paragraph can span several lines.
type Span struct {
	Op      Op
	OldText string
	NewText string
}

// Preview diffs oldText against newText at word granularity and returns the
// coalesced spans: a short run of unchanged words between two edits reads
// as one OpEqual span, not a scatter of single-word ones.
func Preview(oldText, newText string) []Span {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return coalesce(diffs)
}

func coalesce(diffs []diffmatchpatch.Diff) []Span {
	var spans []Span
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if n := len(spans); n > 0 && spans[n-1].Op == OpEqual {
				spans[n-1].OldText += d.Text
				spans[n-1].NewText += d.Text
				continue
			}
			spans = append(spans, Span{Op: OpEqual, OldText: d.Text, NewText: d.Text})
		case diffmatchpatch.DiffDelete:
			if n := len(spans); n > 0 && (spans[n-1].Op == OpDelete || spans[n-1].Op == OpReplace) {
				spans[n-1].OldText += d.Text
				continue
			}
			spans = append(spans, Span{Op: OpDelete, OldText: d.Text})
		case diffmatchpatch.DiffInsert:
			if n := len(spans); n > 0 && (spans[n-1].Op == OpDelete || spans[n-1].Op == OpReplace) {
				spans[n-1].Op = OpReplace
				spans[n-1].NewText += d.Text
				continue
			}
			if n := len(spans); n > 0 && spans[n-1].Op == OpInsert {
				spans[n-1].NewText += d.Text
				continue
			}
			spans = append(spans, Span{Op: OpInsert, NewText: d.Text})
		}
	}
	return spans
}

// Render formats spans as inline "[-deleted-]{+inserted+}" markup, the way
// a plain-text diff viewer would, for printing on a terminal that doesn't
// support color.
func Render(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Op {
		case OpEqual:
			b.WriteString(s.OldText)
		case OpDelete:
			b.WriteString("[-")
			b.WriteString(s.OldText)
			b.WriteString("-]")
		case OpInsert:
			b.WriteString("{+")
			b.WriteString(s.NewText)
			b.WriteString("+}")
		case OpReplace:
			b.WriteString("[-")
			b.WriteString(s.OldText)
			b.WriteString("-]")
			b.WriteString("{+")
			b.WriteString(s.NewText)
			b.WriteString("+}")
		}
	}
	return b.String()
}
