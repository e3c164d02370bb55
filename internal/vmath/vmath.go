package vmath

import "math"

// Vec3 is a 3-component vector (value type).
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul multiplies component-wise.
func (a Vec3) Mul(b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (a Vec3) Dist(b Vec3) float64 { return a.Sub(b).Len() }

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Lerp interpolates a -> b by u.
func Lerp(a, b Vec3, u float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*u,
		Y: a.Y + (b.Y-a.Y)*u,
		Z: a.Z + (b.Z-a.Z)*u,
	}
}

// LerpF interpolates scalars.
func LerpF(a, b, u float64) float64 { return a + (b-a)*u }

// Euler is an XYZ rotation triple in radians.
type Euler struct{ X, Y, Z float64 }

// Clamp clamps x into [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 clamps x in [0,1].
func Clamp01(x float64) float64 { return Clamp(x, 0, 1) }

// Smoothstep is the classic 3x^2 - 2x^3 ease.
func Smoothstep(x float64) float64 {
	x = Clamp01(x)
	return x * x * (3 - 2*x)
}

// Smootherstep is 6x^5 - 15x^4 + 10x^3.
func Smootherstep(x float64) float64 {
	x = Clamp01(x)
	return x * x * x * (x*(x*6-15) + 10)
}

// EasePow is the front-loaded x^p ease used for fly-in motion.
func EasePow(x, p float64) float64 {
	x = Clamp01(x)
	return math.Pow(x, p)
}
