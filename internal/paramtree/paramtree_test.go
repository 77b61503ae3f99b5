package paramtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/rosmaster/pkg/errors"
)

func TestGetSetScalar(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/a/b", int64(5)))

	v, err := tr.Get("/a/b")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	assert.True(t, tr.Has("/a/b"))
	assert.True(t, tr.Has("/a"))
	assert.False(t, tr.Has("/a/c"))
}

func TestGetMissingIsNotFound(t *testing.T) {
	tr := New()
	_, err := tr.Get("/missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestGetThroughScalarIsNotFound(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/a", "scalar"))
	_, err := tr.Get("/a/b")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSetRootRequiresMapping(t *testing.T) {
	tr := New()
	err := tr.Set("/", "not a mapping")
	assert.ErrorIs(t, err, errors.ErrInvalidValue)

	err = tr.Set("/", map[string]Value{"a": int64(1)})
	assert.NoError(t, err)
	v, err := tr.Get("/a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestSetReplacesScalarWithMapping(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/a", "scalar"))
	require.NoError(t, tr.Set("/a/b", int64(9)))

	v, err := tr.Get("/a/b")
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)

	v, err = tr.Get("/a")
	require.NoError(t, err)
	assert.Equal(t, map[string]Value{"b": int64(9)}, v)
}

func TestDelete(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/a/b", int64(1)))

	require.NoError(t, tr.Delete("/a/b"))
	assert.False(t, tr.Has("/a/b"))
	// parent subtree still exists, now empty
	assert.True(t, tr.Has("/a"))

	err := tr.Delete("/a/b")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	err = tr.Delete("/")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestKeysSortedLeavesOnly(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/z", int64(1)))
	require.NoError(t, tr.Set("/a/b", int64(2)))
	require.NoError(t, tr.Set("/a/c", int64(3)))

	assert.Equal(t, []string{"/a/b", "/a/c", "/z"}, tr.Keys())
}

func TestSearchAbsoluteKey(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/foo", int64(1)))

	resolved, err := tr.Search("/foo", "/ignored")
	require.NoError(t, err)
	assert.Equal(t, "/foo", resolved)

	_, err = tr.Search("/bar", "/ignored")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSearchWalksUpNamespace(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/a/foo", int64(7)))

	resolved, err := tr.Search("foo", "/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, "/a/foo", resolved)
}

func TestSearchPrefersNearestNamespace(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/a/b/foo", int64(1)))
	require.NoError(t, tr.Set("/a/foo", int64(2)))

	resolved, err := tr.Search("foo", "/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/foo", resolved)
}

func TestSearchFallsBackToRoot(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("/foo", int64(1)))

	resolved, err := tr.Search("foo", "/a/b")
	require.NoError(t, err)
	assert.Equal(t, "/foo", resolved)
}

func TestSearchNotFound(t *testing.T) {
	tr := New()
	_, err := tr.Search("foo", "/a/b")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestAllDescendantKeys(t *testing.T) {
	value := map[string]Value{
		"b": map[string]Value{
			"c": int64(1),
		},
		"d": int64(2),
	}

	keys := AllDescendantKeys("/a/", value)
	assert.Equal(t, map[string]struct{}{
		"/a/b/":   {},
		"/a/b/c/": {},
		"/a/d/":   {},
	}, keys)
}

func TestValueAtRelativePath(t *testing.T) {
	value := map[string]Value{
		"b": map[string]Value{
			"c": int64(42),
		},
	}

	v, ok := ValueAtRelativePath(value, []string{"b", "c"})
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, ok = ValueAtRelativePath(value, []string{"missing"})
	assert.False(t, ok)
}
