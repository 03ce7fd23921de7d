package simplelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogWritesAndAppends(t *testing.T) {
	t.Setenv("DOCREFLOW_LOG_FILE", filepath.Join(t.TempDir(), "docreflow.log"))

	Log("hello %s", "world")
	Log(" %d", 123)

	b, err := os.ReadFile(os.Getenv("DOCREFLOW_LOG_FILE"))
	require.NoError(t, err)
	require.Equal(t, "hello world\n 123\n", string(b))
}

func TestLogNoOpWhenUnset(t *testing.T) {
	t.Setenv("DOCREFLOW_LOG_FILE", "")
	Log("should not %s", "panic")
}

func TestLogNoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCREFLOW_LOG_FILE", dir)

	Log("ignored %d", 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
