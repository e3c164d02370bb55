package scene

import (
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/vmath"
)

// Transform is one primitive's final pose for the current frame.
type Transform struct {
	Kind  layout.Kind `json:"kind"`
	Index int         `json:"index"`

	Position vmath.Vec3   `json:"pos"`
	Scale    vmath.Vec3   `json:"scale"`
	Rotation vmath.Euler  `json:"rot"`
	Color    layout.Color `json:"color"`

	Brightness float64 `json:"brightness"`
	Mix        float64 `json:"mix"`

	// ContentKey is set for photo slots only.
	ContentKey string `json:"contentKey,omitempty"`
}

// Frame is the continuously overwritten transform output buffer produced
// each tick and handed to the drawing backend.
type Frame struct {
	Seq        uint64      `json:"seq"`
	Transforms []Transform `json:"transforms"`
}

// Driver abstracts the drawing backend the composed frames feed into.
type Driver interface {
	Write(*Frame) error
}

// FocusEvent is emitted when a click lands on a slot whose mix is still
// below the focus-unlock threshold. ScreenOrigin is the 2D projection of the
// slot, for the host UI to animate an overlay from.
type FocusEvent struct {
	Kind         layout.Kind
	Index        int
	ContentKey   string
	ScreenOrigin struct{ X, Y float64 }
}
