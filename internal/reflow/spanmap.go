package reflow

import "sort"

// validate checks the chunk's invariant that every rune offset of Text is
// covered by exactly one SourceLine entry.
func (c *Chunk) validate() error {
	runes := c.runes()
	if len(c.Lines) == 0 {
		if len(runes) == 0 {
			return nil
		}
		return malformedChunkError("chunk has %d runes of text but no source-map entries", len(runes))
	}
	if c.Lines[0].PlainOffset != 0 {
		return malformedChunkError("first source-map entry starts at offset %d, want 0", c.Lines[0].PlainOffset)
	}
	for i, l := range c.Lines {
		if l.Length < 0 {
			return malformedChunkError("source-map entry %d has negative length %d", i, l.Length)
		}
		if i+1 < len(c.Lines) {
			wantNext := l.PlainOffset + l.Length + 1 // +1 for the separating newline
			if c.Lines[i+1].PlainOffset != wantNext {
				return malformedChunkError(
					"source-map entry %d ends at offset %d (want next entry at %d), got %d",
					i, l.PlainOffset+l.Length, wantNext, c.Lines[i+1].PlainOffset,
				)
			}
		}
	}
	last := c.Lines[len(c.Lines)-1]
	if got, want := last.PlainOffset+last.Length, len(runes); got != want {
		return malformedChunkError("source map covers up to offset %d, but chunk text has %d runes", got, want)
	}
	return nil
}

// lineFor returns the SourceLine that covers the given rune offset (offset
// may equal len(Text), the one-past-the-end position, in which case the last
// SourceLine is returned).
func (c *Chunk) lineFor(offset int) SourceLine {
	n := len(c.Lines)
	idx := sort.Search(n, func(i int) bool {
		if i+1 == n {
			return true
		}
		return c.Lines[i+1].PlainOffset > offset
	})
	if idx >= n {
		idx = n - 1
	}
	return c.Lines[idx]
}

// offsetToLineColumn maps a rune offset of Text to its source LineColumn.
func (c *Chunk) offsetToLineColumn(offset int) LineColumn {
	l := c.lineFor(offset)
	col := l.StartColumn + (offset - l.PlainOffset)
	return LineColumn{Line: l.Line, Column: col}
}

// MapRange translates a half-open rune range of Text into the Span of source
// LineColumn it occupies: Start is the source location of rng.Start, End is
// the source location immediately after rng.End-1.
func (c *Chunk) MapRange(rng PlainRange) Span {
	return Span{
		Start: c.offsetToLineColumn(rng.Start),
		End:   c.offsetToLineColumn(rng.End),
	}
}
