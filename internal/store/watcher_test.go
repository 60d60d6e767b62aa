package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_DetectsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contents")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0600))

	changed := make(chan struct{}, 4)
	fw, err := NewFileWatcher(func() { changed <- struct{}{} }, nil, path)
	require.NoError(t, err)
	fw.SetDebounce(20 * time.Millisecond)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	require.NoError(t, New("a", "b").Save(path))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change callback after atomic save")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contents")

	changed := make(chan struct{}, 4)
	fw, err := NewFileWatcher(func() { changed <- struct{}{} }, nil, path)
	require.NoError(t, err)
	fw.SetDebounce(10 * time.Millisecond)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated"), []byte("x"), 0600))

	select {
	case <-changed:
		t.Fatal("callback fired for an unwatched file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcher_StopIdempotent(t *testing.T) {
	fw, err := NewFileWatcher(nil, nil, filepath.Join(t.TempDir(), "contents"))
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}
