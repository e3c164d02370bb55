package layout

import (
	"math"
	"math/rand"

	"github.com/lumenforge/treelight/internal/vmath"
)

// Kind enumerates the primitive categories placed on the tree.
type Kind int

const (
	Ball Kind = iota
	Box
	Star
	Candy
	Crystal
	Photo
	Light
	Snowflake
)

var kindNames = [...]string{"ball", "box", "star", "candy", "crystal", "photo", "light", "snowflake"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a kind by its lowercase name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// GoldenAngle is pi*(3-sqrt(5)), the spiral step in radians.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// Tree describes the cone geometry every formed pose is laid out on.
type Tree struct {
	BaseRadius  float64 // radius at the bottom rim
	Apex        float64 // Y of the tip
	Height      float64 // apex-to-rim drop
	ProgressCap float64 // keeps ornaments off the very bottom rim
	ChaosRadius float64 // scatter sphere radius for generic kinds
	PhotoRadius float64 // chaos spiral radius for photo slots
	PhotoBand   float64 // +/- Y band of the photo chaos spiral
}

// DefaultTree returns the geometry the scene was tuned against.
func DefaultTree() Tree {
	return Tree{
		BaseRadius:  7.5,
		Apex:        9,
		Height:      18,
		ProgressCap: 0.9,
		ChaosRadius: 25,
		PhotoRadius: 18,
		PhotoBand:   6,
	}
}

// Slot is one placed primitive. Geometry is frozen at construction; only the
// runtime mix state (owned by the scene) changes per frame.
type Slot struct {
	Index int
	Kind  Kind

	ChaosPos  vmath.Vec3
	FormedPos vmath.Vec3

	ChaosScale  vmath.Vec3
	FormedScale vmath.Vec3

	Rotation vmath.Euler
	Color    Color
	// ChaosTilt is the extra chaos-only tilt angle; photo slots only.
	ChaosTilt float64
}

// Color is a linear RGB triple.
type Color struct{ R, G, B float64 }

// surface push-out so ornaments sit on the cone rather than on the spiral.
var surfaceScale = map[Kind]float64{
	Ball:      1.10,
	Box:       1.12,
	Star:      1.08,
	Candy:     1.12,
	Crystal:   1.08,
	Photo:     1.15,
	Light:     1.08,
	Snowflake: 1.10,
}

var palettes = map[Kind][]Color{
	Ball:      {{0.86, 0.12, 0.15}, {0.95, 0.78, 0.22}, {0.16, 0.45, 0.82}, {0.80, 0.83, 0.86}},
	Box:       {{0.74, 0.10, 0.12}, {0.12, 0.50, 0.25}, {0.90, 0.72, 0.18}},
	Star:      {{1.00, 0.88, 0.45}, {1.00, 0.80, 0.30}},
	Candy:     {{0.95, 0.95, 0.95}, {0.88, 0.12, 0.14}},
	Crystal:   {{0.70, 0.85, 1.00}, {0.82, 0.92, 1.00}},
	Photo:     {{0.93, 0.88, 0.78}},
	Light:     {{1.00, 0.78, 0.35}, {0.95, 0.35, 0.30}, {0.35, 0.70, 0.95}, {0.45, 0.90, 0.45}},
	Snowflake: {{0.92, 0.96, 1.00}},
}

// Progress is the non-linear radial progression down the cone. Cone surface
// area per unit height grows with squared distance from the apex, so uniform
// density needs progress proportional to sqrt(fraction). Capped below 1 to
// keep the bottom rim clear.
func (t Tree) Progress(i, count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Sqrt(float64(i+1)/float64(count)) * t.ProgressCap
}

// slotSeed derives the frozen per-slot randomness from (kind, index) only.
func slotSeed(kind Kind, i int) int64 {
	return int64(kind)*0x9e3779b9 + int64(i)*0x85ebca77 + 0x27d4eb2f
}

// SlotAt computes the single slot (kind, i) out of count. Pure: identical
// inputs always yield an identical slot.
func (t Tree) SlotAt(kind Kind, i, count int) Slot {
	rng := rand.New(rand.NewSource(slotSeed(kind, i)))

	s := Slot{Index: i, Kind: kind}

	// Formed pose: golden-angle spiral over the cone, phase-shifted per kind
	// so same-index items of different kinds don't collide.
	progress := t.Progress(i, count)
	radius := progress * t.BaseRadius
	height := t.Apex - progress*t.Height
	angle := float64(i)*GoldenAngle + float64(kind)*(2*math.Pi/float64(len(kindNames)))
	push := surfaceScale[kind]
	s.FormedPos = vmath.Vec3{
		X: radius * math.Cos(angle) * push,
		Y: height,
		Z: radius * math.Sin(angle) * push,
	}

	// Chaos pose.
	if kind == Photo {
		// Wider banded spiral so the fly-in path reads as intentional.
		frac := 0.0
		if count > 1 {
			frac = float64(i) / float64(count-1)
		}
		ca := float64(i)*GoldenAngle + rng.Float64()*0.35
		cr := t.PhotoRadius * (0.9 + rng.Float64()*0.2)
		s.ChaosPos = vmath.Vec3{
			X: cr * math.Cos(ca),
			Y: -t.PhotoBand + 2*t.PhotoBand*frac + (rng.Float64()-0.5)*1.5,
			Z: cr * math.Sin(ca),
		}
		s.ChaosTilt = float64(i%5-2) * 0.15
	} else {
		s.ChaosPos = spherePoint(rng, t.ChaosRadius)
	}

	s.FormedScale = formedScale(kind, rng)
	s.ChaosScale = s.FormedScale
	if kind == Photo {
		// Inflated so chaos-state frames read as large and nearby.
		s.ChaosScale = s.FormedScale.Scale(3.5 + rng.Float64()*1.5)
	}

	s.Rotation = vmath.Euler{
		X: rng.Float64() * 2 * math.Pi,
		Y: rng.Float64() * 2 * math.Pi,
		Z: rng.Float64() * 2 * math.Pi,
	}

	pal := palettes[kind]
	s.Color = pal[rng.Intn(len(pal))]

	return s
}

// Build lays out all count slots for a kind. count <= 0 yields no slots.
func (t Tree) Build(kind Kind, count int) []Slot {
	if count <= 0 {
		return nil
	}
	out := make([]Slot, count)
	for i := 0; i < count; i++ {
		out[i] = t.SlotAt(kind, i, count)
	}
	return out
}

func formedScale(kind Kind, rng *rand.Rand) vmath.Vec3 {
	switch kind {
	case Box:
		// Randomized aspect per instance.
		return vmath.Vec3{
			X: 0.7 + rng.Float64()*0.5,
			Y: 0.7 + rng.Float64()*0.5,
			Z: 0.7 + rng.Float64()*0.5,
		}
	case Star:
		return vmath.Vec3{X: 1.3, Y: 1.3, Z: 1.3}
	case Candy:
		return vmath.Vec3{X: 0.8, Y: 0.8, Z: 0.8}
	case Crystal:
		return vmath.Vec3{X: 0.9, Y: 1.2, Z: 0.9}
	case Photo:
		return vmath.Vec3{X: 1, Y: 1, Z: 1}
	case Light:
		return vmath.Vec3{X: 0.3, Y: 0.3, Z: 0.3}
	case Snowflake:
		return vmath.Vec3{X: 0.25, Y: 0.25, Z: 0.25}
	default:
		return vmath.Vec3{X: 1, Y: 1, Z: 1}
	}
}

// spherePoint picks a uniformly distributed point inside a sphere.
func spherePoint(rng *rand.Rand, radius float64) vmath.Vec3 {
	r := radius * math.Cbrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()
	phi := math.Acos(2*rng.Float64() - 1)
	sin := math.Sin(phi)
	return vmath.Vec3{
		X: r * sin * math.Cos(theta),
		Y: r * math.Cos(phi),
		Z: r * sin * math.Sin(theta),
	}
}
