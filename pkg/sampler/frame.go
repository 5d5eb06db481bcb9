package sampler

import (
	"fmt"

	"github.com/chazu/curveball/pkg/geom"
)

// initialReference picks the first up vector, falling back to +X and then
// +Y when the requested one is parallel to the starting tangent.
func initialReference(tangent, up geom.Vec3, tol geom.Tolerances) (geom.Vec3, error) {
	if !geom.Finite3(up) || up.Length() < tol.Zero {
		return geom.Vec3{}, fmt.Errorf("%w: reference vector %v is unusable", ErrDegenerateTangent, up)
	}
	for _, cand := range []geom.Vec3{up.Normalize(), geom.AxisX, geom.AxisY} {
		if tangent.Cross(cand).Length() > 1e-6 {
			return cand, nil
		}
	}
	// Unreachable for a unit tangent: it cannot be parallel to both X and Y.
	return geom.Vec3{}, fmt.Errorf("%w: no reference vector for tangent %v", ErrDegenerateTangent, tangent)
}

// orient sets the binormal from ref with the tangent component removed,
// then completes the basis.
func (f *Frame) orient(ref geom.Vec3) {
	b := ref.Sub(f.Tangent.MulScalar(ref.Dot(f.Tangent)))
	if b.Length() < 1e-12 {
		// The transported reference collapsed onto the tangent; any
		// perpendicular keeps the basis valid.
		b = perpendicular(f.Tangent)
	}
	f.Binormal = b.Normalize()
	f.Normal = f.Binormal.Cross(f.Tangent)
}

// transport carries prev's binormal to next with the double-reflection
// method, which tracks a rotation-minimising frame without twist.
func transport(prev, next Frame) geom.Vec3 {
	r := prev.Binormal
	t := prev.Tangent
	v1 := next.Position.Sub(prev.Position)
	if c1 := v1.Dot(v1); c1 > 1e-24 {
		r = r.Sub(v1.MulScalar(2 / c1 * v1.Dot(r)))
		t = t.Sub(v1.MulScalar(2 / c1 * v1.Dot(t)))
	}
	v2 := next.Tangent.Sub(t)
	if c2 := v2.Dot(v2); c2 > 1e-24 {
		r = r.Sub(v2.MulScalar(2 / c2 * v2.Dot(r)))
	}
	return r
}

func perpendicular(v geom.Vec3) geom.Vec3 {
	cand := geom.AxisX
	if v.Cross(cand).Length() < 0.5 {
		cand = geom.AxisY
	}
	return v.Cross(cand)
}
