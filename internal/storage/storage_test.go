package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalk(t *testing.T) {
	assert.Equal(t, []string{"a", "a/b", "a/b/c"}, Walk("a/b/c"))
	assert.Equal(t, []string{"a"}, Walk("a"))
	assert.Nil(t, Walk(""))
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		"":          "",
		".":         "",
		"a/./b":     "a/b",
		"a/b/":      "a/b",
		"/a/b":      "a/b",
		"../../a":   "a",
		"a/../../b": "b",
	}
	for in, want := range tests {
		assert.Equal(t, want, Clean(in), in)
	}
}

func TestParent(t *testing.T) {
	assert.Equal(t, "", Parent("top"))
	assert.Equal(t, "a/b", Parent("a/b/c"))
	assert.Equal(t, "", Parent(""))
}

func TestMatch_StarStaysWithinOneSegment(t *testing.T) {
	ok, err := Match("status/*.index", "status/new.index")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match("status/*", "status/sub/new.index")
	assert.NoError(t, err)
	assert.False(t, ok)
}
