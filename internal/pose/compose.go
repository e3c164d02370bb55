// Package pose turns a slot's frozen geometry plus its current mix value
// into the final transform for one frame. Compose is a pure function of
// (slot, t, env) so it can be tested without any engine state.
package pose

import (
	"math"

	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/vmath"
)

// NarrowBreakpoint is the viewport width at or below which the scene is
// treated as a narrow/mobile surface.
const NarrowBreakpoint = 768.0

// Camera-distance mapping for the photo perspective multiplier.
const (
	perspectiveNear      = 10.0
	perspectiveFar       = 40.0
	perspectiveMin       = 0.6
	perspectiveMaxWide   = 1.5
	perspectiveMaxNarrow = 1.1

	narrowPhotoShrink = 0.82
)

// Mix thresholds. Per-kind design constants, not universal: the mix is
// asymptotic so consumers compare against these instead of exact poles.
const (
	tumbleUntil    = 0.5
	billboardAbove = 0.8
	focusBelow     = 0.25
	settledAbove   = 0.99
)

// Env carries the shared read-only inputs of one frame's composition.
type Env struct {
	Camera    vmath.Vec3
	ViewportW float64
	ViewportH float64
	// Spin is the accumulated tumble phase, advanced by the engine at 0.5 rad/s.
	Spin float64
}

// Narrow reports whether the viewport is at or below the narrow breakpoint.
func (e Env) Narrow() bool { return e.ViewportW > 0 && e.ViewportW <= NarrowBreakpoint }

// Transform is the composed pose for one frame.
type Transform struct {
	Position   vmath.Vec3
	Scale      vmath.Vec3
	Rotation   vmath.Euler
	Brightness float64
}

// Ease applies the kind-specific easing curve to the raw mix value.
// Photo frames use a front-loaded power ease so the last stretch of assembly
// reads slower and more dramatic; everything else uses smoothstep.
func Ease(kind layout.Kind, t float64) float64 {
	if kind == layout.Photo {
		return vmath.EasePow(t, 0.6)
	}
	return vmath.Smoothstep(t)
}

// FocusUnlocked reports whether a click at mix t may focus this kind.
// Assembled ornaments are small and far; accepting clicks only in the chaos
// regime avoids accidental focus.
func FocusUnlocked(kind layout.Kind, t float64) bool {
	return t < focusBelow
}

// Compose produces the final transform for one slot at mix value t.
func Compose(s layout.Slot, t float64, env Env) Transform {
	e := Ease(s.Kind, t)

	out := Transform{
		Position:   vmath.Lerp(s.ChaosPos, s.FormedPos, e),
		Scale:      vmath.Lerp(s.ChaosScale, s.FormedScale, e),
		Brightness: 1,
	}

	switch s.Kind {
	case layout.Photo:
		composePhoto(&out, s, t, env)
	case layout.Star, layout.Crystal:
		out.Rotation = facingRotation(s, t, env, out.Position)
	default:
		out.Rotation = tumbleRotation(s, t, env)
	}

	return out
}

// tumbleRotation spins generic ornaments while dispersed and settles them to
// their fixed rotation once assembly is past the halfway mark.
func tumbleRotation(s layout.Slot, t float64, env Env) vmath.Euler {
	if t >= tumbleUntil {
		return s.Rotation
	}
	return vmath.Euler{
		X: s.Rotation.X + env.Spin,
		Y: s.Rotation.Y + env.Spin,
		Z: s.Rotation.Z,
	}
}

// facingRotation tumbles like a generic ornament until the billboard
// threshold, then turns the slot outward from the tree's vertical axis.
func facingRotation(s layout.Slot, t float64, env Env, pos vmath.Vec3) vmath.Euler {
	if t <= billboardAbove {
		return tumbleRotation(s, t, env)
	}
	return vmath.Euler{Y: math.Atan2(pos.X, pos.Z)}
}

func composePhoto(out *Transform, s layout.Slot, t float64, env Env) {
	dist := out.Position.Dist(env.Camera)

	// Camera-distance perspective multiplier keeps distant chaos-state
	// frames readably large, fading out as assembly completes.
	if t < settledAbove {
		max := perspectiveMaxWide
		if env.Narrow() {
			max = perspectiveMaxNarrow
		}
		u := vmath.Clamp01((dist - perspectiveNear) / (perspectiveFar - perspectiveNear))
		mult := vmath.LerpF(perspectiveMin, max, u)
		factor := vmath.LerpF(1, mult, 1-t)
		out.Scale = out.Scale.Scale(factor)
	}
	if env.Narrow() {
		out.Scale = out.Scale.Scale(narrowPhotoShrink)
	}

	// Face the camera in transit, snap outward from the tree axis for
	// readability once assembled. The chaos tilt lags back to zero with t.
	var yaw float64
	if t <= billboardAbove {
		yaw = math.Atan2(env.Camera.X-out.Position.X, env.Camera.Z-out.Position.Z)
	} else {
		yaw = math.Atan2(out.Position.X, out.Position.Z)
	}
	out.Rotation = vmath.Euler{Y: yaw, Z: s.ChaosTilt * (1 - t)}

	// Emissive ramps with camera distance while flying, resting at a stable
	// value once formed.
	if t < settledAbove {
		u := vmath.Clamp01((dist - perspectiveNear) / (perspectiveFar - perspectiveNear))
		out.Brightness = 1 + (1-t)*u*0.8
	}
}
