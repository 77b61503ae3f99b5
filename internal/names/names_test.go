package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{}, Split("/"))
	assert.Equal(t, []string{}, Split(""))
	assert.Equal(t, []string{"a", "b"}, Split("/a/b"))
	assert.Equal(t, []string{"a", "b"}, Split("/a/b/"))
	assert.Equal(t, []string{"a", "b"}, Split("a/b"))
}

func TestCanon(t *testing.T) {
	assert.Equal(t, "/", Canon("/"))
	assert.Equal(t, "/a/b/", Canon("/a/b"))
	assert.Equal(t, "/a/b/", Canon("/a/b/"))
	assert.Equal(t, "/a/b/", Canon("a/b"))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "/", Plain("/"))
	assert.Equal(t, "/a/b", Plain("/a/b/"))
	assert.Equal(t, "/a/b", Plain("a/b"))
}
