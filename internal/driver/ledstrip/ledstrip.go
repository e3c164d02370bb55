// Package ledstrip mirrors the scene's light primitives onto a physical
// WS2812 strip wound around a real tree. Each strip pixel takes the color
// and brightness of the light slot with the same index, so the physical
// string disperses to dark and reassembles with the virtual scene.
package ledstrip

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/scene"
	"github.com/lumenforge/treelight/internal/vmath"
)

// Driver pushes light-slot colors to an NRZ LED strip. When no SPI port is
// available it falls back to a terminal screen drawer, same as rendering at
// the console.
type Driver struct {
	pixels int
	drawer display.Drawer
	img    *image.NRGBA
	// Hardware reports whether a real SPI device was found.
	Hardware bool
	// Brightness caps hardware output, 0..1. Scene-level brightness is
	// already baked into each transform.
	Brightness float64
}

// New opens the first SPI port and prepares an nrzled drawer for pixels
// LEDs. speedHz <= 0 picks a safe default.
func New(pixels int, speedHz int) (*Driver, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("ledstrip: invalid pixel count %d", pixels)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ledstrip: host init: %w", err)
	}
	d := &Driver{
		pixels:     pixels,
		img:        image.NewNRGBA(image.Rect(0, 0, pixels, 1)),
		Brightness: 1,
	}
	port, err := spireg.Open("")
	if err != nil {
		// No SPI port; draw to the console instead.
		d.drawer = screen.New(pixels)
		return d, nil
	}
	if speedHz <= 0 {
		speedHz = 2400000
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		Freq:      physic.Frequency(speedHz) * physic.Hertz,
	})
	if err != nil {
		return nil, fmt.Errorf("ledstrip: nrzled: %w", err)
	}
	if err := dev.Halt(); err != nil {
		return nil, fmt.Errorf("ledstrip: halt: %w", err)
	}
	d.drawer = dev
	d.Hardware = true
	return d, nil
}

// Write maps the frame's light transforms onto the strip and draws it.
// Slots beyond the strip length are ignored; missing slots stay dark.
func (d *Driver) Write(f *scene.Frame) error {
	for i := 0; i < d.pixels; i++ {
		d.img.SetNRGBA(i, 0, color.NRGBA{A: 255})
	}
	for _, tr := range f.Transforms {
		if tr.Kind != layout.Light || tr.Index >= d.pixels {
			continue
		}
		// Dispersed lights dim out; the mix itself is the dimmer.
		level := d.Brightness * tr.Brightness * tr.Mix
		d.img.SetNRGBA(tr.Index, 0, color.NRGBA{
			R: to255(tr.Color.R * level),
			G: to255(tr.Color.G * level),
			B: to255(tr.Color.B * level),
			A: 255,
		})
	}
	if err := d.drawer.Draw(d.drawer.Bounds(), d.img, image.Point{}); err != nil {
		return fmt.Errorf("ledstrip: draw: %w", err)
	}
	return nil
}

// Halt blanks the strip.
func (d *Driver) Halt() error {
	if h, ok := d.drawer.(interface{ Halt() error }); ok {
		return h.Halt()
	}
	return nil
}

func to255(x float64) uint8 {
	return uint8(vmath.Clamp01(x) * 255)
}
