// Package extract builds reflow.Chunk values out of real source: Rust-like
// doc comments (`///`, `//!`, `#[doc = r#"..."#]`) scanned line by line, and
// standalone CommonMark documents parsed with goldmark so that fenced code
// blocks and other non-prose blocks are never offered up for rewrapping.
//
// There is no Rust-comment grammar in the example pack's dependency stack,
// so the doc-comment scanner below is a deliberately small regular-expression
// line scanner rather than a borrowed parser; see DESIGN.md for why stdlib
// is the right tool for that one concern.
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/kestrel-tools/docreflow/internal/reflow"
)

var (
	tripleSlashLine = regexp.MustCompile(`^(\s*)///(?:( ).*)?$`)
	bangLine        = regexp.MustCompile(`^(\s*)//!(?:( ).*)?$`)
	docAttrLine     = regexp.MustCompile(`^(\s*)#\[doc\s*=\s*r#"(.*)"#\]\s*$`)
)

// matchedLine is one source line recognized as contributing prose to a doc
// comment, already split into its indentation and prose content.
type matchedLine struct {
	lineIdx     int
	startColumn int
	content     string
}

// RustDocComments scans src line by line and returns one Chunk per maximal
// run of consecutive lines sharing the same comment variant. A run ends
// when the variant changes or a line matches none of the three recognized
// comment forms (ordinary code, blank lines, or anything else).
func RustDocComments(src []byte) []*reflow.Chunk {
	lines := bytes.Split(src, []byte("\n"))

	var chunks []*reflow.Chunk
	var run []matchedLine
	var runVariant reflow.ChunkVariant

	flush := func() {
		if len(run) == 0 {
			return
		}
		chunks = append(chunks, chunkFromRun(run, runVariant))
		run = nil
	}

	for i, raw := range lines {
		line := string(raw)

		switch {
		case matchAndAppend(tripleSlashLine, false, line, i, reflow.VariantTripleSlash, &run, &runVariant, flush):
		case matchAndAppend(bangLine, false, line, i, reflow.VariantDoubleSlashBang, &run, &runVariant, flush):
		case matchAndAppend(docAttrLine, true, line, i, reflow.VariantDocAttribute, &run, &runVariant, flush):
		default:
			flush()
		}
	}
	flush()
	return chunks
}

// matchAndAppend applies re to line; on a match it flushes run if a
// different variant was in progress, appends the matched line under
// variant, and returns true. It returns false (leaving run untouched) when
// re does not match.
func matchAndAppend(
	re *regexp.Regexp,
	group2IsContent bool,
	line string,
	lineIdx int,
	variant reflow.ChunkVariant,
	run *[]matchedLine,
	runVariant *reflow.ChunkVariant,
	flush func(),
) bool {
	startColumn, content, ok := matchDocLine(re, group2IsContent, line)
	if !ok {
		return false
	}
	if len(*run) > 0 && *runVariant != variant {
		flush()
	}
	*runVariant = variant
	*run = append(*run, matchedLine{lineIdx: lineIdx, startColumn: startColumn, content: content})
	return true
}

// matchDocLine reports whether line is a doc-comment line of re's shape,
// and if so the source column its prose content starts at plus the prose
// itself. For the triple-slash/bang forms, group 2 marks a single
// separating space and prose runs from just after it to end of line; for
// the doc-attribute form (group2IsContent), group 2 is the prose itself.
func matchDocLine(re *regexp.Regexp, group2IsContent bool, line string) (startColumn int, content string, ok bool) {
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return 0, "", false
	}
	var contentStart, contentEnd int
	switch {
	case group2IsContent:
		if loc[4] >= 0 {
			contentStart, contentEnd = loc[4], loc[5]
		} else {
			contentStart, contentEnd = loc[1], loc[1]
		}
	case loc[4] >= 0:
		contentStart, contentEnd = loc[5], len(line)
	default:
		contentStart, contentEnd = loc[1], loc[1]
	}
	content = line[contentStart:contentEnd]
	return len([]rune(line[:contentStart])), content, true
}

func chunkFromRun(run []matchedLine, variant reflow.ChunkVariant) *reflow.Chunk {
	var b strings.Builder
	lines := make([]reflow.SourceLine, len(run))
	offset := 0
	for i, m := range run {
		runeLen := len([]rune(m.content))
		lines[i] = reflow.SourceLine{PlainOffset: offset, Line: m.lineIdx, StartColumn: m.startColumn, Length: runeLen}
		b.WriteString(m.content)
		offset += runeLen
		if i+1 < len(run) {
			b.WriteByte('\n')
			offset++
		}
	}
	return &reflow.Chunk{Text: b.String(), Variant: variant, Lines: lines}
}

// Markdown builds a VariantCommonMark Chunk from a standalone markdown
// document, skipping fenced code blocks and any other block that is not a
// paragraph, heading, or list-item text block, so that only prose is ever
// offered up for rewrapping.
func Markdown(src []byte) (*reflow.Chunk, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))
	if root == nil {
		return nil, fmt.Errorf("extract: parse markdown: nil document")
	}
	return linesToChunk(src, proseLineSet(src, root)), nil
}

// proseLineSet returns the 0-based source line numbers that fall within a
// Paragraph, Heading, or list-item TextBlock: lines meant to be read as
// flowing prose, as opposed to fenced/indented code, thematic breaks, or
// raw HTML.
func proseLineSet(src []byte, root ast.Node) map[int]bool {
	out := map[int]bool{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if seg.Start < 0 || seg.Start > len(src) {
					continue
				}
				out[bytes.Count(src[:seg.Start], []byte("\n"))] = true
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

func linesToChunk(src []byte, isProse map[int]bool) *reflow.Chunk {
	rawLines := bytes.Split(src, []byte("\n"))
	if n := len(rawLines); n > 0 && len(rawLines[n-1]) == 0 {
		rawLines = rawLines[:n-1]
	}

	var b strings.Builder
	lines := make([]reflow.SourceLine, len(rawLines))
	offset := 0
	for i, raw := range rawLines {
		var content string
		startColumn := 0
		if isProse[i] {
			trimmed := bytes.TrimLeft(raw, " \t")
			startColumn = len([]rune(string(raw[:len(raw)-len(trimmed)])))
			content = string(trimmed)
		}
		runeLen := len([]rune(content))
		lines[i] = reflow.SourceLine{PlainOffset: offset, Line: i, StartColumn: startColumn, Length: runeLen}
		b.WriteString(content)
		offset += runeLen
		if i+1 < len(rawLines) {
			b.WriteByte('\n')
			offset++
		}
	}
	return &reflow.Chunk{Text: b.String(), Variant: reflow.VariantCommonMark, Lines: lines}
}
