package scene

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/pose"
	"github.com/lumenforge/treelight/internal/registry"
)

// group is the entity record set for one kind: frozen slots plus their
// per-slot mix states. Slots never mutate after build; the mix states are
// the only per-frame mutable state.
type group struct {
	slots []layout.Slot
	mixes []MixState
	keys  []string // content keys, photo group only
}

// Engine owns the slot records and produces one Frame per tick for the
// driver. All mutation happens under one lock; the tick itself is
// single-threaded and cooperative.
type Engine struct {
	Tree layout.Tree
	Cam  *camera.Camera
	Drv  Driver

	// OnFocus, when set, receives qualifying focus requests.
	OnFocus func(FocusEvent)

	mu     sync.Mutex
	groups map[layout.Kind]*group
	target float64
	bright float64
	spin   float64
	viewW  float64
	viewH  float64

	frame Frame
	seq   uint64
	last  Metrics
}

// Metrics are the last frame's durations in milliseconds.
type Metrics struct {
	ComposeMS float64
	TotalMS   float64
}

// Metrics returns the last frame's durations.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// NewEngine wires an engine over the given geometry, camera and backend.
func NewEngine(tree layout.Tree, cam *camera.Camera, drv Driver) *Engine {
	return &Engine{
		Tree:   tree,
		Cam:    cam,
		Drv:    drv,
		groups: map[layout.Kind]*group{},
		bright: 1,
		viewW:  1280,
		viewH:  800,
	}
}

// SetViewport records the host surface size used for breakpoint and
// projection logic.
func (e *Engine) SetViewport(w, h float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w > 0 {
		e.viewW = w
	}
	if h > 0 {
		e.viewH = h
	}
}

// SetTarget sets the scene-wide mix target: 0 disperses, 1 assembles.
// Intermediate values are accepted for continuous control.
func (e *Engine) SetTarget(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	e.target = v
}

// Target returns the current mix target.
func (e *Engine) Target() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// SetBrightness scales every composed transform's brightness. Values are
// clamped to [0, 1.5].
func (e *Engine) SetBrightness(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1.5 {
		v = 1.5
	}
	e.bright = v
}

// Brightness returns the scene brightness scalar.
func (e *Engine) Brightness() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bright
}

// Toggle flips the target between the two poles.
func (e *Engine) Toggle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.target >= 0.5 {
		e.target = 0
	} else {
		e.target = 1
	}
}

// SetCount rebuilds the slot set for a kind. Slots are destroyed and
// recreated wholesale; every slot's geometry depends on the total count.
// Fresh mix states start at the current target so nothing jumps.
func (e *Engine) SetCount(kind layout.Kind, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuild(kind, e.Tree.Build(kind, count), nil)
}

// SetPhotos rebinds photo content. Adding or removing an entry relayouts
// every photo slot, since formed positions ease by total count.
func (e *Engine) SetPhotos(entries []registry.PhotoEntry) {
	bound := registry.Bind(e.Tree, entries)
	slots := make([]layout.Slot, len(bound))
	keys := make([]string, len(bound))
	for i, b := range bound {
		slots[i] = b.Slot
		keys[i] = b.Key
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuild(layout.Photo, slots, keys)
}

func (e *Engine) rebuild(kind layout.Kind, slots []layout.Slot, keys []string) {
	if len(slots) == 0 {
		delete(e.groups, kind)
		return
	}
	g := &group{slots: slots, keys: keys, mixes: make([]MixState, len(slots))}
	for i := range g.mixes {
		g.mixes[i] = NewMixState(kind, e.target)
	}
	e.groups[kind] = g
}

// Tick advances every mix state by dt seconds, composes the frame into the
// transform buffer and writes it to the driver. Invoked once per rendered
// frame by the host loop; never blocks.
func (e *Engine) Tick(dt float64) error {
	start := time.Now()

	e.mu.Lock()
	if e.Cam != nil {
		e.Cam.Update(dt)
	}
	e.spin += dt * 0.5

	env := pose.Env{ViewportW: e.viewW, ViewportH: e.viewH, Spin: e.spin}
	if e.Cam != nil {
		env.Camera = e.Cam.Position()
	}

	n := 0
	for _, g := range e.groups {
		n += len(g.slots)
	}
	if cap(e.frame.Transforms) < n {
		e.frame.Transforms = make([]Transform, 0, n)
	}
	e.frame.Transforms = e.frame.Transforms[:0]

	for _, kind := range buildOrder {
		g, ok := e.groups[kind]
		if !ok {
			continue
		}
		for i := range g.slots {
			g.mixes[i].Advance(e.target, dt)
			t := g.mixes[i].Current
			p := pose.Compose(g.slots[i], t, env)
			tr := Transform{
				Kind:       kind,
				Index:      i,
				Position:   p.Position,
				Scale:      p.Scale,
				Rotation:   p.Rotation,
				Color:      g.slots[i].Color,
				Brightness: p.Brightness * e.bright,
				Mix:        t,
			}
			if g.keys != nil {
				tr.ContentKey = g.keys[i]
			}
			e.frame.Transforms = append(e.frame.Transforms, tr)
		}
	}
	e.seq++
	e.frame.Seq = e.seq
	drv := e.Drv
	e.last.ComposeMS = float64(time.Since(start).Microseconds()) / 1000.0
	e.mu.Unlock()

	if drv != nil {
		if err := drv.Write(&e.frame); err != nil {
			return err
		}
	}
	e.mu.Lock()
	e.last.TotalMS = float64(time.Since(start).Microseconds()) / 1000.0
	e.mu.Unlock()
	return nil
}

// buildOrder keeps frame composition deterministic across ticks.
var buildOrder = []layout.Kind{
	layout.Light, layout.Ball, layout.Box, layout.Star,
	layout.Candy, layout.Crystal, layout.Snowflake, layout.Photo,
}

// Snapshot copies the last composed frame.
func (e *Engine) Snapshot() *Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := &Frame{Seq: e.frame.Seq, Transforms: make([]Transform, len(e.frame.Transforms))}
	copy(out.Transforms, e.frame.Transforms)
	return out
}

// pickRadius is the screen-space hit tolerance for focus clicks.
const pickRadius = 40.0

// Focus resolves a click at screen (x, y) to a focusable slot. A slot
// qualifies only while its mix is below the focus-unlock threshold; the
// nearest qualifying projection within the pick radius wins. The returned
// event carries the slot's screen origin for the host's fly-in overlay.
func (e *Engine) Focus(x, y float64) (FocusEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var best FocusEvent
	bestD := pickRadius
	found := false
	for _, tr := range e.frame.Transforms {
		if !pose.FocusUnlocked(tr.Kind, tr.Mix) {
			continue
		}
		sx, sy, ok := e.Cam.Project(tr.Position, e.viewW, e.viewH)
		if !ok {
			continue
		}
		dx, dy := sx-x, sy-y
		d := dx*dx + dy*dy
		if d > bestD*bestD {
			continue
		}
		bestD = math.Sqrt(d)
		best = FocusEvent{Kind: tr.Kind, Index: tr.Index, ContentKey: tr.ContentKey}
		best.ScreenOrigin.X = sx
		best.ScreenOrigin.Y = sy
		found = true
	}
	if found && e.OnFocus != nil {
		e.OnFocus(best)
	}
	return best, found
}

// Run drives the engine at the given fps until the context ends.
func (e *Engine) Run(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = 60
	}
	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = e.Tick(dt.Seconds())
		}
	}
}
