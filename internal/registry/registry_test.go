package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenforge/treelight/internal/layout"
)

func TestClampTransform(t *testing.T) {
	var clampCases = []struct {
		in   FrameTransform
		want FrameTransform
	}{
		{FrameTransform{Scale: 99, OffsetX: 5, OffsetY: -3}, FrameTransform{Scale: 2.5, OffsetX: 0.6, OffsetY: -0.6}},
		{FrameTransform{Scale: 0.1, OffsetX: -0.7, OffsetY: 0.61}, FrameTransform{Scale: 0.5, OffsetX: -0.6, OffsetY: 0.6}},
		{FrameTransform{Scale: 1.2, OffsetX: 0.3, OffsetY: -0.2}, FrameTransform{Scale: 1.2, OffsetX: 0.3, OffsetY: -0.2}},
		{FrameTransform{}, FrameTransform{Scale: 1}},
	}
	for _, c := range clampCases {
		assert.Equal(t, c.want, c.in.Clamp())
	}
}

func TestContentKeyStable(t *testing.T) {
	img := PhotoEntry{Kind: Image, SourceURL: "https://example.com/a.jpg"}
	assert.Equal(t, ContentKey(img), ContentKey(img))
	assert.NotEqual(t, ContentKey(img), ContentKey(PhotoEntry{Kind: Image, SourceURL: "https://example.com/b.jpg"}))

	card := PhotoEntry{Kind: Card, Message: "merry", Signature: "io"}
	assert.Equal(t, ContentKey(card), ContentKey(card))
	assert.NotEqual(t, ContentKey(card), ContentKey(img))

	explicit := PhotoEntry{Kind: Image, Key: "pinned", SourceURL: "https://example.com/a.jpg"}
	assert.Equal(t, "pinned", ContentKey(explicit))
}

func TestBindByPosition(t *testing.T) {
	tree := layout.DefaultTree()
	entries := []PhotoEntry{
		{Kind: Image, SourceURL: "https://example.com/a.jpg"},
		{Kind: Card, Message: "hello"},
	}
	bound := Bind(tree, entries)
	assert.Len(t, bound, 2)
	for i, b := range bound {
		assert.Equal(t, i, b.Slot.Index)
		assert.Equal(t, layout.Photo, b.Slot.Kind)
		assert.Equal(t, ContentKey(entries[i]), b.Key)
	}
}

// Rebinding an unchanged entry slice yields bit-identical output.
func TestBindIdempotent(t *testing.T) {
	tree := layout.DefaultTree()
	entries := []PhotoEntry{
		{Kind: Image, SourceURL: "https://example.com/a.jpg", Transform: FrameTransform{Scale: 1.4}},
		{Kind: Card, Message: "hello"},
		{Kind: Card, Message: "again"},
	}
	a := Bind(tree, entries)
	b := Bind(tree, entries)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("rebinding unchanged entries produced different output")
	}
}

func TestBindEmpty(t *testing.T) {
	assert.Nil(t, Bind(layout.DefaultTree(), nil))
	assert.Nil(t, Bind(layout.DefaultTree(), []PhotoEntry{}))
}

func TestBindClampsTransforms(t *testing.T) {
	tree := layout.DefaultTree()
	bound := Bind(tree, []PhotoEntry{{Kind: Image, SourceURL: "u", Transform: FrameTransform{Scale: 99, OffsetX: 5}}})
	assert.Equal(t, 2.5, bound[0].Entry.Transform.Scale)
	assert.Equal(t, 0.6, bound[0].Entry.Transform.OffsetX)
}
