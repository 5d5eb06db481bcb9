// Package geom holds the vector types, angle helpers and numeric
// tolerances shared by every stage of the brush pipeline. Points and
// directions are sdfx vectors so the preview kernels can consume them
// without conversion.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec2 is a point or direction in a profile's local plane.
type Vec2 = v2.Vec

// Vec3 is a point or direction in map space.
type Vec3 = v3.Vec

// Unit axes.
var (
	AxisX = Vec3{X: 1}
	AxisY = Vec3{Y: 1}
	AxisZ = Vec3{Z: 1}
)

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite2 reports whether every component of v is finite.
func Finite2(v Vec2) bool {
	return Finite(v.X) && Finite(v.Y)
}

// Finite3 reports whether every component of v is finite.
func Finite3(v Vec3) bool {
	return Finite(v.X) && Finite(v.Y) && Finite(v.Z)
}

// AllFinite reports whether every value is finite.
func AllFinite(vals ...float64) bool {
	for _, f := range vals {
		if !Finite(f) {
			return false
		}
	}
	return true
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Lerp3 interpolates linearly between two points.
func Lerp3(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Centroid returns the average of pts, or the zero vector for an empty set.
func Centroid(pts []Vec3) Vec3 {
	var sum Vec3
	if len(pts) == 0 {
		return sum
	}
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1.0 / float64(len(pts)))
}

// Rotate turns v about the unit axis by angle radians (Rodrigues' formula).
func Rotate(v, axis Vec3, angle float64) Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return v.MulScalar(c).
		Add(axis.Cross(v).MulScalar(s)).
		Add(axis.MulScalar(axis.Dot(v) * (1 - c)))
}

// PolarXY returns the point at radius r and angle theta (radians) in the XY plane.
func PolarXY(r, theta float64) Vec3 {
	return Vec3{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// DominantAxis returns 0, 1 or 2 for the component of n with the largest magnitude.
// Ties resolve toward Z, then Y, which keeps floors and walls on their usual planes.
func DominantAxis(n Vec3) int {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case az >= ax && az >= ay:
		return 2
	case ay >= ax:
		return 1
	default:
		return 0
	}
}
