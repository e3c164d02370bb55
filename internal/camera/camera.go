package camera

import (
	"math"
	"sync"

	"github.com/lumenforge/treelight/internal/vmath"
)

// Camera is the orbit camera around the tree axis. Drag/gesture input moves
// the targets; Update eases the live values toward them so motion stays
// smooth regardless of how jumpy the input is. Input arrives from network
// handlers while the engine loop reads the pose, so all orbit state sits
// behind the camera's own lock.
type Camera struct {
	Center vmath.Vec3
	FOV    float64 // vertical field of view, radians

	mu                     sync.Mutex
	yaw, pitch, dist       float64
	targetYaw, targetPitch float64
	targetDist             float64
	parallaxX, parallaxY   float64
	smoothing              float64 // 1/s
	minDist, maxDist       float64
	minPitch, maxPitch     float64
}

// New returns a camera at the default viewing orbit.
func New() *Camera {
	return &Camera{
		Center:      vmath.Vec3{Y: 0},
		FOV:         55 * math.Pi / 180,
		yaw:         0.6,
		targetYaw:   0.6,
		pitch:       0.15,
		targetPitch: 0.15,
		dist:        30,
		targetDist:  30,
		smoothing:   4.0,
		minDist:     12,
		maxDist:     60,
		minPitch:    -0.4,
		maxPitch:    1.1,
	}
}

// Orbit adds a drag delta to the orbit targets.
func (c *Camera) Orbit(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targetYaw += dx
	c.targetPitch = vmath.Clamp(c.targetPitch+dy, c.minPitch, c.maxPitch)
}

// Zoom moves the orbit distance target. Positive zooms out.
func (c *Camera) Zoom(d float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targetDist = vmath.Clamp(c.targetDist+d, c.minDist, c.maxDist)
}

// Parallax sets the gesture-driven sway offset; x and y are normalized to
// roughly [-1, 1].
func (c *Camera) Parallax(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parallaxX = vmath.Clamp(x, -1, 1)
	c.parallaxY = vmath.Clamp(y, -1, 1)
}

// Update eases live orbit values toward their targets.
func (c *Camera) Update(dt float64) {
	if dt <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	u := vmath.Clamp01(c.smoothing * dt)
	c.yaw += (c.targetYaw + c.parallaxX*0.25 - c.yaw) * u
	c.pitch += (vmath.Clamp(c.targetPitch+c.parallaxY*0.12, c.minPitch, c.maxPitch) - c.pitch) * u
	c.dist += (c.targetDist - c.dist) * u
}

// Position returns the camera's world position.
func (c *Camera) Position() vmath.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *Camera) position() vmath.Vec3 {
	cp := math.Cos(c.pitch)
	return vmath.Vec3{
		X: c.Center.X + c.dist*cp*math.Sin(c.yaw),
		Y: c.Center.Y + c.dist*math.Sin(c.pitch),
		Z: c.Center.Z + c.dist*cp*math.Cos(c.yaw),
	}
}

// Project maps a world point to screen coordinates for a w x h viewport.
// ok is false when the point is behind the near plane.
func (c *Camera) Project(p vmath.Vec3, w, h float64) (x, y float64, ok bool) {
	c.mu.Lock()
	eye := c.position()
	c.mu.Unlock()
	forward := c.Center.Sub(eye).Normalize()
	worldUp := vmath.Vec3{Y: 1}
	right := cross(forward, worldUp).Normalize()
	up := cross(right, forward)

	d := p.Sub(eye)
	zc := d.Dot(forward)
	const near = 0.1
	if zc <= near {
		return 0, 0, false
	}
	f := (h / 2) / math.Tan(c.FOV/2)
	x = w/2 + d.Dot(right)*f/zc
	y = h/2 - d.Dot(up)*f/zc
	return x, y, true
}

func cross(a, b vmath.Vec3) vmath.Vec3 {
	return vmath.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
