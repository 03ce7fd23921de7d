package reflow

import "strings"

// Reflow computes the SuggestionSet for every paragraph of chunk that needs
// rewrapping under config. origin is stamped onto every Suggestion produced
// so callers can trace it back to the file (or test entity) it came from.
func Reflow(origin ContentOrigin, chunk *Chunk, config ReflowConfig) (SuggestionSet, error) {
	if config.MaxLineLength <= 0 {
		return nil, zeroWidthBudgetError()
	}
	if err := chunk.validate(); err != nil {
		return nil, err
	}

	runes := chunk.runes()
	indentations := chunk.Indentations()

	var out SuggestionSet
	for _, span := range paragraphsOf(chunk) {
		startLine := chunk.Lines[span.startLineIdx]
		endLine := chunk.Lines[span.endLineIdxExclusive-1]
		rng := PlainRange{Start: startLine.PlainOffset, End: endLine.PlainOffset + endLine.Length}

		paragraph := runes[rng.Start:rng.End]
		local := computeUnbreakables(paragraph)
		abs := make([]Unbreakable, len(local))
		for i, u := range local {
			abs[i] = Unbreakable{Start: u.Start + rng.Start, End: u.End + rng.Start}
		}
		schedule := indentations[span.startLineIdx:span.endLineIdxExclusive]

		replacement, changed, err := ReflowInner(chunk.Text, rng, abs, schedule, config.MaxLineLength, chunk.Variant)
		if err != nil {
			return nil, err
		}
		if !changed {
			continue
		}
		out = append(out, Suggestion{
			Origin:       origin,
			Span:         chunk.MapRange(rng),
			Range:        rng,
			Replacements: []string{replacement},
		})
	}
	return out, nil
}

// ReflowInner rewraps a single paragraph: plainText[rng.Start:rng.End] (rune
// offsets), with unbreakables given in plainText-absolute rune coordinates
// and indentationSchedule giving each original line's indentation in
// display columns. It reports changed=false when the existing text already
// matches what rewrapping would produce, in which case replacement is the
// empty string and callers should not emit a Suggestion.
func ReflowInner(
	plainText string,
	rng PlainRange,
	unbreakables []Unbreakable,
	indentationSchedule []int,
	maxLineLength int,
	variant ChunkVariant,
) (replacement string, changed bool, err error) {
	if maxLineLength <= 0 {
		return "", false, zeroWidthBudgetError()
	}
	runes := []rune(plainText)
	if rng.Start < 0 || rng.End > len(runes) || rng.Start > rng.End {
		return "", false, malformedChunkError("reflow range %v out of bounds for a %d-rune text", rng, len(runes))
	}
	paragraph := runes[rng.Start:rng.End]

	local := make([]Unbreakable, 0, len(unbreakables))
	for _, u := range unbreakables {
		s, e := u.Start-rng.Start, u.End-rng.Start
		if s < 0 {
			s = 0
		}
		if e > len(paragraph) {
			e = len(paragraph)
		}
		if s < e {
			local = append(local, Unbreakable{Start: s, End: e})
		}
	}
	local = mergeOverlapping(local)

	tokens := buildWrapTokens(paragraph, local)
	wrapped := wrapTokens(tokens, indentationSchedule, maxLineLength)
	if err := checkWrappedLines(wrapped, maxLineLength); err != nil {
		return "", false, err
	}

	newLines := renderWrappedLines(wrapped)
	newText := renderReplacement(variant, newLines)

	oldLines := originalLinesOf(paragraph)
	oldText := renderReplacement(variant, oldLines)

	if newText == oldText {
		return "", false, nil
	}
	return newText, true, nil
}

// checkWrappedLines is the wrapper's internal invariant check: a line may
// only exceed maxLineLength when it re-tokenizes to a single token (forced
// overflow of one unbreakable unit, which may itself contain spaces). A
// multi-token line over budget means the greedy filler admitted a token it
// should have deferred, which is a bug upstream rather than a legitimate
// overflow.
func checkWrappedLines(wrapped []wrappedLine, maxLineLength int) error {
	for i, l := range wrapped {
		if l.Indent+displayWidth(l.Text) <= maxLineLength {
			continue
		}
		r := []rune(l.Text)
		if len(buildWrapTokens(r, computeUnbreakables(r))) > 1 {
			return internalInvariantError("wrapped line %d exceeds %d columns but holds more than one token: %q", i, maxLineLength, l.Text)
		}
	}
	return nil
}

// originalLinesOf reconstructs the paragraph's original per-source-line text
// for comparison against a freshly wrapped rendering; within a single
// paragraph, source lines are separated by exactly one '\n' in plain text.
func originalLinesOf(paragraph []rune) []string {
	return strings.Split(string(paragraph), "\n")
}

// paragraphSpan is a contiguous run of non-blank Chunk.Lines entries, i.e.
// one paragraph's worth of source lines.
type paragraphSpan struct {
	startLineIdx        int
	endLineIdxExclusive int
}

// paragraphsOf groups chunk.Lines into paragraphs, treating any zero-length
// line (a blank doc-comment line, or a blank line in a standalone markdown
// document) as a separator rather than as part of either paragraph.
func paragraphsOf(chunk *Chunk) []paragraphSpan {
	var out []paragraphSpan
	i, n := 0, len(chunk.Lines)
	for i < n {
		for i < n && chunk.Lines[i].Length == 0 {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && chunk.Lines[i].Length > 0 {
			i++
		}
		out = append(out, paragraphSpan{startLineIdx: start, endLineIdxExclusive: i})
	}
	return out
}
