package reflow

import "strings"

// lineJoiner returns the literal text that reconnects two consecutive
// wrapped output lines of variant back into the host source's own syntax.
// A Span covering more than one source line includes everything between
// the first line's prose and the last line's prose — comment prefixes and
// newlines included — so a Replacement must reproduce that connective
// tissue exactly, not just the prose.
func lineJoiner(variant ChunkVariant) string {
	switch variant {
	case VariantTripleSlash:
		return "\n/// "
	case VariantDoubleSlashBang:
		return "\n//! "
	case VariantDocAttribute:
		// Each physical line is its own `#[doc=r#"..."#]` attribute; closing
		// one raw string literal and opening the next is what stands between
		// two wrapped lines: a closing quote, "#]", a newline, then the next
		// attribute's opening `#[doc=r#"`.
		return "\"#]\n#[doc=r#\""
	case VariantCommonMark:
		return "\n"
	default:
		return "\n"
	}
}

// renderReplacement joins wrapped output lines into the literal text that
// replaces a Suggestion's Span in the host source.
func renderReplacement(variant ChunkVariant, lines []string) string {
	return strings.Join(lines, lineJoiner(variant))
}

// renderWrappedLines turns wrapper output into text lines, one per
// wrappedLine, ready for renderReplacement to join. Indent only counts
// toward a line's width budget and is not emitted: a Suggestion's Span
// starts at the first line's prose, and lineJoiner supplies the prefix of
// every later line.
func renderWrappedLines(lines []wrappedLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
