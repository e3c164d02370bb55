package scene

import (
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/vmath"
)

// MixState is the per-slot smoothed scalar that chases the scene-wide target.
// 0 is the chaos pole, 1 the formed pole. The target flips instantly; all
// visual smoothness comes from this lag.
type MixState struct {
	Current float64
	Rate    float64 // convergence speed, 1/s
}

// MixRate returns the convergence speed for a kind. Photo frames
// intentionally lag to convey a fly-in feel.
func MixRate(kind layout.Kind) float64 {
	if kind == layout.Photo {
		return 0.8
	}
	return 2.0
}

// NewMixState starts at the current target so a freshly built slot doesn't
// jump on its first frame.
func NewMixState(kind layout.Kind, target float64) MixState {
	return MixState{Current: vmath.Clamp01(target), Rate: MixRate(kind)}
}

// Advance moves Current toward target by one frame of elapsed time.
// Exponential approach: the step is proportional to the remaining distance,
// so Current never overshoots and never exactly reaches the target.
func (m *MixState) Advance(target, dt float64) {
	if dt <= 0 {
		return
	}
	m.Current += (target - m.Current) * vmath.Clamp01(m.Rate*dt)
}
