// Package brush turns segment brushes into validated half-space brushes
// ready for export: one outward plane per face, with texture alignment.
package brush

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chazu/curveball/pkg/extrude"
	"github.com/chazu/curveball/pkg/geom"
)

// ErrDegenerateBrush is matched by every *DegenerateError.
var ErrDegenerateBrush = errors.New("degenerate brush")

var errCollapsed = errors.New("all vertices are collinear")

// DegenerateError describes why a brush was rejected.
type DegenerateError struct {
	Brush  int
	Face   int // -1 when the problem is not tied to one face
	Reason string
}

func (e *DegenerateError) Error() string {
	if e.Face >= 0 {
		return fmt.Sprintf("degenerate brush %d: face %d: %s", e.Brush, e.Face, e.Reason)
	}
	return fmt.Sprintf("degenerate brush %d: %s", e.Brush, e.Reason)
}

func (e *DegenerateError) Unwrap() error { return ErrDegenerateBrush }

// Plane is one bounding half-space n·x <= Offset of a brush.
type Plane struct {
	Normal geom.Vec3
	Offset float64
	// Points are three face vertices ordered so (p0-p1)×(p2-p1) is the
	// outward normal, as the map grammar expects.
	Points  [3]geom.Vec3
	Texture Texture
	// Axis is the resolved texture projection axis: 0, 1 or 2 for X, Y, Z.
	Axis int
	Kind extrude.FaceKind
}

// Distance returns the signed distance of v from the plane; negative inside.
func (p Plane) Distance(v geom.Vec3) float64 {
	return p.Normal.Dot(v) - p.Offset
}

// Brush is a finished convex solid. It is never modified after Finalize.
type Brush struct {
	index    int
	planes   []Plane
	faces    []extrude.Face
	vertices []geom.Vec3
	centroid geom.Vec3
	volume   float64
}

// Index returns the position of the brush in the pipeline output.
func (b *Brush) Index() int { return b.index }

// Planes returns the planes in face order.
func (b *Brush) Planes() []Plane { return slices.Clone(b.planes) }

// Faces returns the face loops the planes were computed from, for preview.
func (b *Brush) Faces() []extrude.Face { return slices.Clone(b.faces) }

// Vertices returns the brush corners.
func (b *Brush) Vertices() []geom.Vec3 { return slices.Clone(b.vertices) }

// Centroid returns the vertex average, which lies strictly inside the brush.
func (b *Brush) Centroid() geom.Vec3 { return b.centroid }

// Volume returns the enclosed volume.
func (b *Brush) Volume() float64 { return b.volume }

// Finalize validates every segment and converts it into a Brush. The first
// failure aborts the whole batch.
func Finalize(segs []extrude.SegmentBrush, tex TextureParams, tol geom.Tolerances) ([]*Brush, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	out := make([]*Brush, 0, len(segs))
	for _, seg := range segs {
		b, err := build(seg, tex, tol)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// New validates a single segment.
func New(seg extrude.SegmentBrush, tex TextureParams, tol geom.Tolerances) (*Brush, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	return build(seg, tex, tol)
}

func build(seg extrude.SegmentBrush, tex TextureParams, tol geom.Tolerances) (*Brush, error) {
	fail := func(face int, format string, args ...any) error {
		return &DegenerateError{Brush: seg.Index, Face: face, Reason: fmt.Sprintf(format, args...)}
	}
	if len(seg.Faces) < 4 {
		return nil, fail(-1, "%d faces, need at least 4", len(seg.Faces))
	}
	for _, v := range seg.Vertices {
		if !geom.Finite3(v) {
			return nil, fail(-1, "vertex %v is not finite", v)
		}
	}

	planes := make([]Plane, 0, len(seg.Faces))
	faces := make([]extrude.Face, 0, len(seg.Faces))
	for i, f := range seg.Faces {
		p, err := facePlane(f, tex.For(f.Kind), tol)
		if errors.Is(err, errCollapsed) && f.Kind == extrude.Side {
			// A side pinched to an edge, e.g. a profile touching the axis.
			continue
		}
		if err != nil {
			return nil, fail(i, "%v", err)
		}
		planes = append(planes, p)
		faces = append(faces, f)
	}
	if len(planes) < 4 {
		return nil, fail(-1, "%d non-degenerate faces, need at least 4", len(planes))
	}

	for i := range planes {
		for j := i + 1; j < len(planes); j++ {
			if 1+planes[i].Normal.Dot(planes[j].Normal) < tol.Parallel &&
				planes[i].Offset+planes[j].Offset <= tol.Interior {
				return nil, fail(j, "opposes face %d with no room between them", i)
			}
		}
	}

	c := geom.Centroid(seg.Vertices)
	for i, p := range planes {
		for _, v := range seg.Vertices {
			if d := p.Distance(v); d > tol.Convexity {
				return nil, fail(i, "vertex %v lies %g outside the plane", v, d)
			}
		}
		if d := p.Distance(c); d >= -tol.Interior {
			return nil, fail(i, "centroid is not strictly inside (distance %g)", d)
		}
	}

	vol := volume(faces, c)
	if !(vol > tol.MinVolume) {
		return nil, fail(-1, "volume %g is below %g", vol, tol.MinVolume)
	}
	if tol.MinThickness > 0 {
		var widest float64
		for _, f := range faces {
			widest = max(widest, newell(f.Loop).Length()/2)
		}
		if t := vol / widest; t < tol.MinThickness {
			return nil, fail(-1, "thickness %g is below %g", t, tol.MinThickness)
		}
	}

	return &Brush{
		index:    seg.Index,
		planes:   planes,
		faces:    faces,
		vertices: slices.Clone(seg.Vertices),
		centroid: c,
		volume:   vol,
	}, nil
}

// facePlane fits a plane through a near-widest triangle of loop vertices
// and checks the rest lie on it.
func facePlane(f extrude.Face, tex Texture, tol geom.Tolerances) (Plane, error) {
	loop := f.Loop
	if len(loop) < 3 {
		return Plane{}, fmt.Errorf("%d vertices", len(loop))
	}
	b := farthest(loop, func(v geom.Vec3) float64 { return v.Sub(loop[0]).Length() })
	a := farthest(loop, func(v geom.Vec3) float64 { return v.Sub(b).Length() })
	ab := b.Sub(a)
	c := farthest(loop, func(v geom.Vec3) float64 { return ab.Cross(v.Sub(a)).Length() })
	cross := ab.Cross(c.Sub(a))
	if cross.Length() <= tol.Zero {
		return Plane{}, errCollapsed
	}
	// Keep the loop's winding.
	if cross.Dot(newell(loop)) < 0 {
		b, c = c, b
		cross = cross.MulScalar(-1)
	}
	n := cross.Normalize()
	d := n.Dot(a)
	for _, v := range loop {
		if dist := n.Dot(v) - d; dist > tol.Planarity || dist < -tol.Planarity {
			return Plane{}, fmt.Errorf("vertex %v is %g off the face plane", v, dist)
		}
	}
	axis := int(tex.Projection) - 1
	if tex.Projection == Dominant || axis < 0 || axis > 2 {
		axis = geom.DominantAxis(n)
	}
	return Plane{
		Normal:  n,
		Offset:  d,
		Points:  [3]geom.Vec3{b, a, c},
		Texture: tex,
		Axis:    axis,
		Kind:    f.Kind,
	}, nil
}

func farthest(loop extrude.Loop, dist func(geom.Vec3) float64) geom.Vec3 {
	best, far := loop[0], dist(loop[0])
	for _, v := range loop[1:] {
		if d := dist(v); d > far {
			best, far = v, d
		}
	}
	return best
}

// newell returns the area-weighted normal of a loop. Its length is twice
// the loop's area.
func newell(l extrude.Loop) geom.Vec3 {
	var n geom.Vec3
	for i, p := range l {
		q := l[(i+1)%len(l)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// volume sums signed tetrahedra from the interior point c over a fan of
// every face.
func volume(faces []extrude.Face, c geom.Vec3) float64 {
	var v float64
	for _, f := range faces {
		p0 := f.Loop[0].Sub(c)
		for i := 1; i+1 < len(f.Loop); i++ {
			p1 := f.Loop[i].Sub(c)
			p2 := f.Loop[i+1].Sub(c)
			v += p0.Dot(p1.Cross(p2))
		}
	}
	return v / 6
}
