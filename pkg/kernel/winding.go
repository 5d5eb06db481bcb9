package kernel

import (
	"errors"
	"fmt"

	"github.com/chazu/curveball/pkg/geom"
)

// ErrUnbounded is returned when half-spaces do not enclose a finite solid.
var ErrUnbounded = errors.New("half-spaces do not bound a solid")

// WorldExtent is the half-size of the base polygon every face starts from.
// Anything outside ±WorldExtent cannot be represented.
const WorldExtent = 1 << 16

const clipEpsilon = 1e-6

// Windings returns one face polygon per half-space that contributes to the
// boundary, wound counter-clockwise seen from outside. Faces clipped away
// entirely are left out.
func Windings(planes []HalfSpace) ([][]geom.Vec3, error) {
	if len(planes) < 4 {
		return nil, fmt.Errorf("%w: %d planes", ErrUnbounded, len(planes))
	}
	var out [][]geom.Vec3
	for i, p := range planes {
		if l := p.Normal.Length(); l == 0 || !geom.Finite3(p.Normal) || !geom.Finite(p.Offset) {
			return nil, fmt.Errorf("kernel: plane %d is invalid", i)
		}
		w := baseWinding(p)
		for j, q := range planes {
			if i == j {
				continue
			}
			w = clip(w, q)
			if len(w) < 3 {
				break
			}
		}
		if len(w) >= 3 {
			out = append(out, w)
		}
	}
	if len(out) < 4 {
		return nil, fmt.Errorf("%w: %d faces survive clipping", ErrUnbounded, len(out))
	}
	for _, w := range out {
		for _, v := range w {
			for _, c := range [3]float64{v.X, v.Y, v.Z} {
				if c >= WorldExtent-1 || c <= -WorldExtent+1 {
					return nil, fmt.Errorf("%w: face reaches the world bounds", ErrUnbounded)
				}
			}
		}
	}
	return out, nil
}

// baseWinding returns a huge square on the plane, wound so its normal
// matches the plane's.
func baseWinding(p HalfSpace) []geom.Vec3 {
	n := p.Normal.Normalize()
	up := geom.AxisZ
	if geom.DominantAxis(n) == 2 {
		up = geom.AxisX
	}
	up = up.Sub(n.MulScalar(up.Dot(n))).Normalize()
	right := up.Cross(n)
	org := n.MulScalar(p.Offset / p.Normal.Length())

	up = up.MulScalar(WorldExtent)
	right = right.MulScalar(WorldExtent)
	w := []geom.Vec3{
		org.Sub(right).Sub(up),
		org.Add(right).Sub(up),
		org.Add(right).Add(up),
		org.Sub(right).Add(up),
	}
	if Normal(w).Dot(n) < 0 {
		w[1], w[3] = w[3], w[1]
	}
	return w
}

// clip keeps the part of polygon w inside q.
func clip(w []geom.Vec3, q HalfSpace) []geom.Vec3 {
	n := q.Normal.Normalize()
	d := q.Offset / q.Normal.Length()
	dist := make([]float64, len(w))
	inside := 0
	for i, v := range w {
		dist[i] = n.Dot(v) - d
		if dist[i] <= clipEpsilon {
			inside++
		}
	}
	if inside == len(w) {
		return w
	}
	if inside == 0 {
		return nil
	}
	out := make([]geom.Vec3, 0, len(w)+1)
	for i, v := range w {
		j := (i + 1) % len(w)
		if dist[i] <= clipEpsilon {
			out = append(out, v)
		}
		if (dist[i] < -clipEpsilon && dist[j] > clipEpsilon) || (dist[i] > clipEpsilon && dist[j] < -clipEpsilon) {
			t := dist[i] / (dist[i] - dist[j])
			out = append(out, geom.Lerp3(v, w[j], t))
		}
	}
	return out
}

// Normal returns the area-weighted normal of a polygon.
func Normal(w []geom.Vec3) geom.Vec3 {
	var n geom.Vec3
	for i, p := range w {
		q := w[(i+1)%len(w)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}
