package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(files []*File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path()
	}
	return out
}

func TestFilesWithKey(t *testing.T) {
	tr := build(t, `nes.enable 1
snes.enable 1
video.driver opengl
enable 0
nes.enable 0
`)

	assert.Equal(t, []string{"/mednafenrc", "/nesrc", "/snesrc"}, paths(tr.FilesWithKey("enable")))
	assert.Equal(t, []string{"/videorc"}, paths(tr.FilesWithKey("driver")))
	assert.Nil(t, tr.FilesWithKey("missing"))
}

func TestKeyBitmap(t *testing.T) {
	tr := build(t, "nes.enable 1\nsnes.enable 1\n")

	bm := tr.KeyBitmap("enable")
	require.NotNil(t, bm)
	assert.Equal(t, uint64(2), bm.GetCardinality())
	assert.True(t, bm.Contains(mustFile(t, tr, "/nesrc").FileID()))
	assert.True(t, bm.Contains(mustFile(t, tr, "/snesrc").FileID()))

	// The copy is detached from the tree's index.
	bm.Clear()
	assert.Len(t, tr.FilesWithKey("enable"), 2)

	assert.Nil(t, tr.KeyBitmap("missing"))
}

func TestKeys(t *testing.T) {
	tr := build(t, sampleConfig)
	assert.Equal(t, []string{"driver", "fullscreen", "type"}, tr.Keys())
}

func TestFileIDsFollowCreationOrder(t *testing.T) {
	tr := build(t, sampleConfig)

	for i, f := range tr.Files() {
		assert.Equal(t, uint32(i), f.FileID())
	}
	assert.Equal(t, []string{"/mednafenrc", "/videorc", "/input/port1rc"}, paths(tr.Files()))
}
