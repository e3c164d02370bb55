// Package snapshot renders a composed frame to a still image: painter-sorted
// point splats over a night background, encoded as WebP.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sort"

	"github.com/HugoSmits86/nativewebp"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/scene"
	"github.com/lumenforge/treelight/internal/vmath"
)

// Render projects every transform of the frame through cam into a w x h image.
func Render(f *scene.Frame, cam *camera.Camera, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bg := color.NRGBA{R: 4, G: 8, B: 18, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}

	eye := cam.Position()
	type splat struct {
		x, y, size int
		depth      float64
		c          color.NRGBA
	}
	splats := make([]splat, 0, len(f.Transforms))
	for _, tr := range f.Transforms {
		sx, sy, ok := cam.Project(tr.Position, float64(w), float64(h))
		if !ok {
			continue
		}
		depth := tr.Position.Dist(eye)
		level := vmath.Clamp01(tr.Brightness)
		splats = append(splats, splat{
			x:     int(sx),
			y:     int(sy),
			size:  int(vmath.Clamp(tr.Scale.X*120/depth, 1, 40)),
			depth: depth,
			c: color.NRGBA{
				R: uint8(vmath.Clamp01(tr.Color.R*level) * 255),
				G: uint8(vmath.Clamp01(tr.Color.G*level) * 255),
				B: uint8(vmath.Clamp01(tr.Color.B*level) * 255),
				A: 255,
			},
		})
	}
	sort.Slice(splats, func(i, j int) bool { return splats[i].depth > splats[j].depth })

	for _, s := range splats {
		half := s.size / 2
		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				x, y := s.x+dx, s.y+dy
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				img.SetNRGBA(x, y, s.c)
			}
		}
	}
	return img
}

// Encode writes img as WebP.
func Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return nil
}

// WriteFile renders and saves a frame in one step.
func WriteFile(path string, f *scene.Frame, cam *camera.Camera, w, h int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer out.Close()
	return Encode(out, Render(f, cam, w, h))
}
