package pose

import (
	"math"
	"testing"

	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/vmath"
)

func slot(kind layout.Kind) layout.Slot {
	return layout.Slot{
		Kind:        kind,
		ChaosPos:    vmath.Vec3{X: 20, Y: 5, Z: 0},
		FormedPos:   vmath.Vec3{X: 4, Y: -2, Z: 3},
		ChaosScale:  vmath.Vec3{X: 4, Y: 4, Z: 4},
		FormedScale: vmath.Vec3{X: 1, Y: 1, Z: 1},
		Rotation:    vmath.Euler{X: 0.3, Y: 0.7, Z: 0.1},
		ChaosTilt:   0.3,
	}
}

func env() Env {
	return Env{Camera: vmath.Vec3{Z: 30}, ViewportW: 1280, ViewportH: 800}
}

func TestComposePoles(t *testing.T) {
	s := slot(layout.Ball)
	at0 := Compose(s, 0, env())
	if at0.Position != s.ChaosPos {
		t.Fatalf("t=0 must sit at chaos pose, got %#v", at0.Position)
	}
	at1 := Compose(s, 1, env())
	if at1.Position != s.FormedPos {
		t.Fatalf("t=1 must sit at formed pose, got %#v", at1.Position)
	}
	if at1.Scale != s.FormedScale {
		t.Fatalf("t=1 scale = %#v", at1.Scale)
	}
}

func TestComposeIsPure(t *testing.T) {
	s := slot(layout.Photo)
	e := env()
	a := Compose(s, 0.37, e)
	b := Compose(s, 0.37, e)
	if a != b {
		t.Fatalf("compose not pure:\n%#v\n%#v", a, b)
	}
}

func TestTumbleSettles(t *testing.T) {
	s := slot(layout.Ball)
	e := env()
	e.Spin = 2.5
	spinning := Compose(s, 0.2, e)
	if spinning.Rotation.X == s.Rotation.X {
		t.Fatalf("expected tumbling rotation below threshold")
	}
	settled := Compose(s, 0.7, e)
	if settled.Rotation != s.Rotation {
		t.Fatalf("expected fixed rotation above threshold, got %#v", settled.Rotation)
	}
}

func TestStarBillboardsOutward(t *testing.T) {
	s := slot(layout.Star)
	tr := Compose(s, 0.95, env())
	want := math.Atan2(tr.Position.X, tr.Position.Z)
	if math.Abs(tr.Rotation.Y-want) > 1e-9 || tr.Rotation.X != 0 {
		t.Fatalf("star should face outward from the axis, got %#v", tr.Rotation)
	}
}

func TestPhotoFacesCameraThenOutward(t *testing.T) {
	s := slot(layout.Photo)
	e := env()

	transit := Compose(s, 0.5, e)
	wantCam := math.Atan2(e.Camera.X-transit.Position.X, e.Camera.Z-transit.Position.Z)
	if math.Abs(transit.Rotation.Y-wantCam) > 1e-9 {
		t.Fatalf("in-transit photo should face the camera: %v vs %v", transit.Rotation.Y, wantCam)
	}
	if transit.Rotation.Z == 0 {
		t.Fatalf("chaos tilt should still be partially applied at t=0.5")
	}

	formed := Compose(s, 0.9, e)
	wantOut := math.Atan2(formed.Position.X, formed.Position.Z)
	if math.Abs(formed.Rotation.Y-wantOut) > 1e-9 {
		t.Fatalf("assembled photo should face outward: %v vs %v", formed.Rotation.Y, wantOut)
	}
}

func TestPhotoPerspectiveScale(t *testing.T) {
	s := slot(layout.Photo)
	near := env()
	near.Camera = vmath.Vec3{X: 20, Y: 5, Z: 11} // ~11 away from chaos pos
	far := env()
	far.Camera = vmath.Vec3{X: 20, Y: 5, Z: 45}

	a := Compose(s, 0, near)
	b := Compose(s, 0, far)
	if b.Scale.X <= a.Scale.X {
		t.Fatalf("distant chaos photo should render larger: near %v, far %v", a.Scale.X, b.Scale.X)
	}

	// Once effectively formed, the multiplier is gone.
	formed := Compose(s, 0.995, far)
	if formed.Scale != s.FormedScale {
		t.Fatalf("formed photo scale should be the plain formed scale, got %#v", formed.Scale)
	}
}

func TestNarrowViewportShrinksPhotos(t *testing.T) {
	s := slot(layout.Photo)
	wide := env()
	narrow := env()
	narrow.ViewportW = 720

	a := Compose(s, 0.5, wide)
	b := Compose(s, 0.5, narrow)
	if b.Scale.X >= a.Scale.X {
		t.Fatalf("narrow viewport should shrink photos: %v vs %v", b.Scale.X, a.Scale.X)
	}
}

func TestPhotoBrightness(t *testing.T) {
	s := slot(layout.Photo)
	e := env()
	e.Camera = vmath.Vec3{X: 20, Y: 5, Z: 45}
	transit := Compose(s, 0.2, e)
	if transit.Brightness <= 1 {
		t.Fatalf("distant in-transit photo should overbrighten, got %v", transit.Brightness)
	}
	rest := Compose(s, 0.995, e)
	if rest.Brightness != 1 {
		t.Fatalf("formed photo should rest at brightness 1, got %v", rest.Brightness)
	}
}

func TestFocusUnlockThreshold(t *testing.T) {
	if !FocusUnlocked(layout.Photo, 0.1) {
		t.Fatalf("chaos-state slot should accept focus")
	}
	if FocusUnlocked(layout.Photo, 0.5) {
		t.Fatalf("assembling slot should not accept focus")
	}
}
