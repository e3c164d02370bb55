package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenforge/treelight/internal/registry"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photos.json")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

// Out-of-range transforms are clamped on the save path, not at read time.
func TestPutClampsTransform(t *testing.T) {
	s, _ := tempStore(t)
	err := s.Put(Record{
		Key:       "p1",
		Kind:      registry.Image,
		SourceURL: "https://example.com/a.jpg",
		Transform: registry.FrameTransform{Scale: 99, OffsetX: 5, OffsetY: -9},
	})
	require.NoError(t, err)

	r, ok := s.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 2.5, r.Transform.Scale)
	assert.Equal(t, 0.6, r.Transform.OffsetX)
	assert.Equal(t, -0.6, r.Transform.OffsetY)
}

func TestRoundTrip(t *testing.T) {
	s, path := tempStore(t)
	require.NoError(t, s.Put(Record{Key: "a", Kind: registry.Card, Message: "hi", Signature: "io"}))
	require.NoError(t, s.Put(Record{Key: "b", Kind: registry.Image, SourceURL: "https://example.com/b.jpg"}))

	re, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, re.List(), 2)
	r, ok := re.Get("a")
	require.True(t, ok)
	assert.Equal(t, "hi", r.Message)
	assert.Equal(t, "io", r.Signature)
}

func TestDelete(t *testing.T) {
	s, path := tempStore(t)
	require.NoError(t, s.Put(Record{Key: "a", Kind: registry.Card, Message: "x"}))
	require.NoError(t, s.Delete("a"))
	_, ok := s.Get("a")
	assert.False(t, ok)

	re, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, re.List())
}

func TestPutWithoutKey(t *testing.T) {
	s, _ := tempStore(t)
	assert.Error(t, s.Put(Record{Kind: registry.Card, Message: "anon"}))
}

func TestEntriesSortedAndEditable(t *testing.T) {
	s, _ := tempStore(t)
	require.NoError(t, s.Put(Record{Key: "b", Kind: registry.Card, Message: "2"}))
	require.NoError(t, s.Put(Record{Key: "a", Kind: registry.Card, Message: "1"}))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "b", entries[1].Key)
	assert.True(t, entries[0].Editable)
}
