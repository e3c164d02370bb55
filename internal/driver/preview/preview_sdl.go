//go:build sdl

package preview

import (
	"fmt"
	"sort"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/scene"
	"github.com/lumenforge/treelight/internal/vmath"
)

// Driver splats composed transforms into an SDL window. Points are painter-
// sorted by camera depth so nearer ornaments draw over farther ones.
type Driver struct {
	Cam  *camera.Camera
	W, H int

	window   *sdl.Window
	renderer *sdl.Renderer
}

func New(cam *camera.Camera, w, h int) (*Driver, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("preview: sdl init: %w", err)
	}
	win, err := sdl.CreateWindow(
		"treelight",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(w), int32(h),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return nil, fmt.Errorf("preview: window: %w", err)
	}
	ren, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("preview: renderer: %w", err)
	}
	return &Driver{Cam: cam, W: w, H: h, window: win, renderer: ren}, nil
}

type splat struct {
	x, y, size int32
	depth      float64
	r, g, b    uint8
}

func (d *Driver) Write(f *scene.Frame) error {
	d.renderer.SetDrawColor(4, 8, 18, 255)
	d.renderer.Clear()

	eye := d.Cam.Position()
	splats := make([]splat, 0, len(f.Transforms))
	for _, tr := range f.Transforms {
		sx, sy, ok := d.Cam.Project(tr.Position, float64(d.W), float64(d.H))
		if !ok {
			continue
		}
		depth := tr.Position.Dist(eye)
		size := int32(vmath.Clamp(tr.Scale.X*120/depth, 1, 40))
		level := vmath.Clamp01(tr.Brightness)
		splats = append(splats, splat{
			x: int32(sx), y: int32(sy), size: size, depth: depth,
			r: uint8(vmath.Clamp01(tr.Color.R*level) * 255),
			g: uint8(vmath.Clamp01(tr.Color.G*level) * 255),
			b: uint8(vmath.Clamp01(tr.Color.B*level) * 255),
		})
	}
	sort.Slice(splats, func(i, j int) bool { return splats[i].depth > splats[j].depth })

	for _, s := range splats {
		d.renderer.SetDrawColor(s.r, s.g, s.b, 255)
		d.renderer.FillRect(&sdl.Rect{X: s.x - s.size/2, Y: s.y - s.size/2, W: s.size, H: s.size})
	}
	d.renderer.Present()
	return nil
}

func (d *Driver) Close() {
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
}
