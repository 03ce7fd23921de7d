package reflow

import "strings"

// fluffUp builds a Chunk of VariantTripleSlash or VariantDoubleSlashBang
// prose from literal doc-comment lines, the way the Rust test suite this
// package's test vectors are drawn from builds one with its `fluff_up!`
// macro: each element of lines is one already comment-marker-stripped line
// of prose, indented by indent columns in the (fictitious) host source.
// Blank entries become zero-length SourceLine separators, so consecutive
// non-blank lines form one paragraph.
func fluffUp(variant ChunkVariant, indent int, lines ...string) *Chunk {
	var text strings.Builder
	srcLines := make([]SourceLine, len(lines))
	offset := 0
	for i, l := range lines {
		srcLines[i] = SourceLine{PlainOffset: offset, Line: i, StartColumn: indent, Length: len([]rune(l))}
		text.WriteString(l)
		offset += len([]rune(l))
		if i+1 < len(lines) {
			text.WriteByte('\n')
			offset++
		}
	}
	return &Chunk{Text: text.String(), Variant: variant, Lines: srcLines}
}

// chyrpUp builds a Chunk of VariantDocAttribute prose from literal lines,
// mirroring the Rust suite's `chyrp_up!` macro: each line becomes its own
// `#[doc = r#"..."#]` attribute rather than a `///` comment, so reflowed
// output rejoins with the attribute dance lineJoiner produces for
// VariantDocAttribute instead of a bare triple-slash prefix. Every attribute
// starts at column 0, so its prose starts at column 11, right after the
// `#[doc = r#"` opener.
func chyrpUp(lines ...string) *Chunk {
	return fluffUp(VariantDocAttribute, len(`#[doc = r#"`), lines...)
}
