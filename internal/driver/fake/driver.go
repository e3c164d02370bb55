package fake

import (
	"fmt"
	"sync"

	"github.com/lumenforge/treelight/internal/scene"
)

// Driver records frames for headless runs and tests. With Verbose set it
// prints a compact per-frame summary.
type Driver struct {
	Verbose bool

	mu    sync.Mutex
	count int
	last  *scene.Frame
}

func (d *Driver) Write(f *scene.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count++
	cp := &scene.Frame{Seq: f.Seq, Transforms: make([]scene.Transform, len(f.Transforms))}
	copy(cp.Transforms, f.Transforms)
	d.last = cp

	if d.Verbose {
		var mix float64
		for _, tr := range f.Transforms {
			mix += tr.Mix
		}
		n := len(f.Transforms)
		if n == 0 {
			n = 1
		}
		fmt.Printf("[frame %04d] slots=%d avg_mix=%.3f\n", d.count, len(f.Transforms), mix/float64(n))
	}
	return nil
}

// Frames returns how many frames were written.
func (d *Driver) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Last returns a copy of the most recent frame, or nil.
func (d *Driver) Last() *scene.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
