package raftcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOptionsParsesCommentedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raftlog.hujson")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// Smaller cache for a memory-constrained host.
		"hint_cache_size": 250,
	}`), 0o640))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Len(t, opts, 1)

	o := buildOptions(opts...)
	require.Equal(t, 250, o.HintCacheSize)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "nope.hujson"))
	require.Error(t, err)
}

func TestBuildOptionsDefaults(t *testing.T) {
	o := buildOptions()
	require.NotNil(t, o.Logger)
	require.Equal(t, MaxHints, o.HintCacheSize)
	require.False(t, o.DisableFsyncForTests)
}
