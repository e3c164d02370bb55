// Package registry binds user-supplied photos and cards to the photo slots
// the distributor lays out. Binding is by array position and is recomputed
// wholesale whenever the entry count changes: photo positions are a function
// of the total count, not stable per-item identifiers. Persistence therefore
// keys off ContentKey, never off slot index.
package registry

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/vmath"
)

// EntryKind distinguishes uploaded photos from written cards.
type EntryKind string

const (
	Image EntryKind = "image"
	Card  EntryKind = "card"
)

// FrameTransform is the user-adjustable pan/zoom of an image inside its
// frame. Values may arrive from stale or untrusted storage and are clamped
// at the point of use.
type FrameTransform struct {
	Scale   float64 `json:"scale" yaml:"scale"`
	OffsetX float64 `json:"offsetX" yaml:"offset_x"`
	OffsetY float64 `json:"offsetY" yaml:"offset_y"`
}

// Safe ranges for FrameTransform values.
const (
	MinFrameScale  = 0.5
	MaxFrameScale  = 2.5
	MaxFrameOffset = 0.6
)

// Clamp returns the transform limited to the documented safe ranges.
// A zero scale is treated as unset and restored to 1.
func (f FrameTransform) Clamp() FrameTransform {
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	return FrameTransform{
		Scale:   vmath.Clamp(scale, MinFrameScale, MaxFrameScale),
		OffsetX: vmath.Clamp(f.OffsetX, -MaxFrameOffset, MaxFrameOffset),
		OffsetY: vmath.Clamp(f.OffsetY, -MaxFrameOffset, MaxFrameOffset),
	}
}

// PhotoEntry is the content bound to one photo slot.
type PhotoEntry struct {
	Kind      EntryKind      `json:"kind"`
	Key       string         `json:"key,omitempty"` // explicit stable id; derived when empty
	SourceURL string         `json:"url,omitempty"`
	Message   string         `json:"message,omitempty"`
	Signature string         `json:"signature,omitempty"`
	Transform FrameTransform `json:"transform"`
	Editable  bool           `json:"editable"`
}

// ContentKey resolves the stable identity of an entry: the explicit key when
// present, otherwise a digest of the source URL for images or of the message
// text for cards. External persistence uses this for signature and transform
// lookups.
func ContentKey(e PhotoEntry) string {
	if e.Key != "" {
		return e.Key
	}
	switch e.Kind {
	case Card:
		return "card-" + digest(e.Message+"\x00"+e.Signature)
	default:
		return "img-" + digest(e.SourceURL)
	}
}

func digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:8])
}

// Bound pairs one photo slot with its content.
type Bound struct {
	Slot  layout.Slot
	Entry PhotoEntry
	Key   string
}

// Bind lays out one photo slot per entry and pairs them by position.
// An empty entry slice yields an empty binding, never an error. Binding an
// unchanged slice again produces identical output.
func Bind(tree layout.Tree, entries []PhotoEntry) []Bound {
	if len(entries) == 0 {
		return nil
	}
	slots := tree.Build(layout.Photo, len(entries))
	out := make([]Bound, len(entries))
	for i, e := range entries {
		e.Transform = e.Transform.Clamp()
		out[i] = Bound{Slot: slots[i], Entry: e, Key: ContentKey(e)}
	}
	return out
}
