//go:build !sdl

package preview

import (
	"fmt"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/scene"
)

// Driver is unavailable without the sdl build tag.
type Driver struct{}

func New(cam *camera.Camera, w, h int) (*Driver, error) {
	return nil, fmt.Errorf("preview: built without sdl tag")
}

func (d *Driver) Write(f *scene.Frame) error { return nil }
func (d *Driver) Close()                     {}
