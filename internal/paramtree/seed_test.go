package paramtree

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadSeedDecodesNestedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"robot":{"name":"r2d2","id":7}}`), 0o644))

	v, err := LoadSeed(path)
	require.NoError(t, err)

	tree := New()
	require.NoError(t, tree.Set("/", v))

	got, err := tree.Get("/robot/name")
	require.NoError(t, err)
	assert.Equal(t, "r2d2", got)

	id, err := tree.Get("/robot/id")
	require.NoError(t, err)
	assert.Equal(t, float64(7), id)
}

func TestLoadSeedMissingFile(t *testing.T) {
	_, err := LoadSeed("/nonexistent/path/seed.json")
	assert.Error(t, err)
}

func TestWatchSeedReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o644))

	reloaded := make(chan Value, 1)
	w, err := WatchSeed(path, zap.NewNop(), func(v Value) {
		reloaded <- v
	})
	require.NoError(t, err)
	defer w.Close()

	// fsnotify needs the watch to be installed before the write; a short
	// delay avoids racing the initial Add.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"a":2}`), 0o644))

	select {
	case v := <-reloaded:
		m, ok := v.(map[string]Value)
		require.True(t, ok)
		assert.Equal(t, float64(2), m["a"])
	case <-time.After(3 * time.Second):
		t.Fatal("seed reload callback was not invoked in time")
	}
}
