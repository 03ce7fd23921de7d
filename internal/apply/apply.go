// Package apply walks real files on disk, extracts doc-comment and markdown
// prose from each recognized one, and writes back whatever reflow.Reflow
// suggests. It is the on-disk counterpart of internal/extract and
// internal/reflow, the way updatedocs.ReflowDocumentationPaths is the
// on-disk counterpart of this repository's Go-doc-comment analog.
package apply

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kestrel-tools/docreflow/internal/diffpreview"
	"github.com/kestrel-tools/docreflow/internal/extract"
	"github.com/kestrel-tools/docreflow/internal/reflow"
)

// Options configures a single ReflowPaths call.
type Options struct {
	MaxLineLength int
}

// Result is what ReflowPaths found, and, unless dryRun was set, changed.
type Result struct {
	// Modified lists the absolute paths of every file that was (or, under
	// dryRun, would have been) rewritten, sorted.
	Modified []string
	// Skipped lists "path: reason" entries for files a recognized extension
	// matched but that could not be reflowed, sorted.
	Skipped []string
	// Diffs maps an absolute path in Modified to one rendered word-level
	// diff preview per suggestion applied to it, in source order.
	Diffs map[string][]string
}

type chunkBuilder func(src []byte) ([]*reflow.Chunk, error)

var extensionBuilders = map[string]chunkBuilder{
	".rs": func(src []byte) ([]*reflow.Chunk, error) {
		return extract.RustDocComments(src), nil
	},
	".md": func(src []byte) ([]*reflow.Chunk, error) {
		chunk, err := extract.Markdown(src)
		if err != nil {
			return nil, err
		}
		return []*reflow.Chunk{chunk}, nil
	},
	".markdown": func(src []byte) ([]*reflow.Chunk, error) {
		chunk, err := extract.Markdown(src)
		if err != nil {
			return nil, err
		}
		return []*reflow.Chunk{chunk}, nil
	},
}

// ReflowPaths reflows every recognized file reachable from paths. Each path
// is either an individual file or a directory, walked recursively. Files
// whose extension isn't recognized are silently ignored, mirroring how
// gofmt-style tools only ever touch the file kind they understand.
//
// If dryRun is true, no file is written; Result.Modified still reports what
// would have changed.
func ReflowPaths(paths []string, dryRun bool, opts Options) (Result, error) {
	res := Result{Diffs: map[string][]string{}}
	if len(paths) == 0 {
		return res, nil
	}
	if opts.MaxLineLength <= 0 {
		return res, fmt.Errorf("apply: invalid max line length %d", opts.MaxLineLength)
	}

	seen := map[string]bool{}
	visit := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if seen[abs] {
			return nil
		}
		seen[abs] = true
		return reflowFile(abs, dryRun, opts, &res)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return res, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return res, err
		}
		if !info.IsDir() {
			if err := visit(abs); err != nil {
				return res, err
			}
			continue
		}
		err = filepath.WalkDir(abs, func(walked string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			return visit(walked)
		})
		if err != nil {
			return res, err
		}
	}

	sort.Strings(res.Modified)
	sort.Strings(res.Skipped)
	return res, nil
}

func reflowFile(path string, dryRun bool, opts Options, res *Result) error {
	build, ok := extensionBuilders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	chunks, err := build(src)
	if err != nil {
		res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", path, err))
		return nil
	}

	origin := reflow.ContentOrigin{Kind: reflow.OriginPath, Path: path}
	var suggestions reflow.SuggestionSet
	for _, chunk := range chunks {
		s, err := reflow.Reflow(origin, chunk, reflow.ReflowConfig{MaxLineLength: opts.MaxLineLength})
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		suggestions = append(suggestions, s...)
	}
	if len(suggestions) == 0 {
		return nil
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Span.Start.Less(suggestions[j].Span.Start)
	})

	newSrc, diffs, err := applySuggestions(src, suggestions)
	if err != nil {
		res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", path, err))
		return nil
	}

	res.Modified = append(res.Modified, path)
	res.Diffs[path] = diffs
	if dryRun {
		return nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, newSrc, mode)
}

// applySuggestions rewrites src with every suggestion's replacement text
// spliced in at the byte range its Span maps to, and returns a rendered
// diff preview per suggestion in the same (ascending) order they appear in
// suggestions.
func applySuggestions(src []byte, suggestions reflow.SuggestionSet) ([]byte, []string, error) {
	lineStarts := byteOffsetsOfLines(src)

	type edit struct {
		startByte, endByte int
		newText            string
	}
	edits := make([]edit, len(suggestions))
	diffs := make([]string, len(suggestions))
	for i, s := range suggestions {
		startByte, err := byteOffset(src, lineStarts, s.Span.Start)
		if err != nil {
			return nil, nil, err
		}
		endByte, err := byteOffset(src, lineStarts, s.Span.End)
		if err != nil {
			return nil, nil, err
		}
		newText := s.Replacements[0]
		edits[i] = edit{startByte: startByte, endByte: endByte, newText: newText}
		diffs[i] = diffpreview.Render(diffpreview.Preview(string(src[startByte:endByte]), newText))
	}

	out := append([]byte(nil), src...)
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		rewritten := make([]byte, 0, len(out)-(e.endByte-e.startByte)+len(e.newText))
		rewritten = append(rewritten, out[:e.startByte]...)
		rewritten = append(rewritten, []byte(e.newText)...)
		rewritten = append(rewritten, out[e.endByte:]...)
		out = rewritten
	}
	return out, diffs, nil
}

// byteOffsetsOfLines returns the byte offset each line of src starts at,
// line 0 first.
func byteOffsetsOfLines(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// byteOffset converts a rune-column LineColumn (as produced by
// reflow.Chunk.MapRange) into a byte offset into src.
func byteOffset(src []byte, lineStarts []int, lc reflow.LineColumn) (int, error) {
	if lc.Line < 0 || lc.Line >= len(lineStarts) {
		return 0, fmt.Errorf("apply: line %d out of range", lc.Line)
	}
	lineStart := lineStarts[lc.Line]
	lineEnd := len(src)
	if lc.Line+1 < len(lineStarts) {
		lineEnd = lineStarts[lc.Line+1] - 1
		if lineEnd > 0 && src[lineEnd-1] == '\r' {
			lineEnd--
		}
	}
	runes := []rune(string(src[lineStart:lineEnd]))
	if lc.Column < 0 || lc.Column > len(runes) {
		return 0, fmt.Errorf("apply: column %d out of range on line %d", lc.Column, lc.Line)
	}
	return lineStart + len(string(runes[:lc.Column])), nil
}
