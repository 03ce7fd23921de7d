package apply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReflowPathsRewritesALongRustDocComment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", "/// one two three four five six seven eight\nfn f() {}\n")

	res, err := ReflowPaths([]string{path}, false, Options{MaxLineLength: 20})
	require.NoError(t, err)
	require.Len(t, res.Modified, 1)
	assert.Equal(t, path, res.Modified[0])

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n/// ")
	assert.Contains(t, string(out), "fn f() {}")
}

func TestReflowPathsDryRunLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	original := "/// one two three four five six seven eight\n"
	path := writeFile(t, dir, "lib.rs", original)

	res, err := ReflowPaths([]string{path}, true, Options{MaxLineLength: 20})
	require.NoError(t, err)
	require.Len(t, res.Modified, 1)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(out))
}

func TestReflowPathsSkipsUnrecognizedExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "whatever, this is not a recognized source file\n")

	res, err := ReflowPaths([]string{dir}, false, Options{MaxLineLength: 20})
	require.NoError(t, err)
	assert.Empty(t, res.Modified)
	assert.Empty(t, res.Skipped)
}

func TestReflowPathsLeavesShortParagraphsAlone(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", "/// short\nfn f() {}\n")

	res, err := ReflowPaths([]string{path}, false, Options{MaxLineLength: 80})
	require.NoError(t, err)
	assert.Empty(t, res.Modified)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/// short\nfn f() {}\n", string(out))
}

func TestReflowPathsWalksDirectoriesRecursively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	path := writeFile(t, sub, "lib.rs", "/// one two three four five six seven eight\n")

	res, err := ReflowPaths([]string{dir}, false, Options{MaxLineLength: 20})
	require.NoError(t, err)
	require.Len(t, res.Modified, 1)
	assert.Equal(t, path, res.Modified[0])
}

func TestReflowPathsRejectsNonPositiveWidth(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", "/// hi\n")

	_, err := ReflowPaths([]string{path}, false, Options{MaxLineLength: 0})
	require.Error(t, err)
}
