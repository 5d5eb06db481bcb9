package extrude

import (
	"fmt"
	"slices"

	"github.com/chazu/curveball/pkg/geom"
)

// FaceKind tells caps from side faces.
type FaceKind int

const (
	StartCap FaceKind = iota
	EndCap
	Side
)

func (k FaceKind) String() string {
	switch k {
	case StartCap:
		return "start-cap"
	case EndCap:
		return "end-cap"
	case Side:
		return "side"
	}
	return fmt.Sprintf("FaceKind(%d)", int(k))
}

// Loop is a planar convex polygon in map space.
type Loop []geom.Vec3

// Face is one boundary polygon of a segment brush, wound counter-clockwise
// when seen from outside the solid.
type Face struct {
	Kind FaceKind
	Loop Loop
}

// SegmentBrush is the convex solid swept by one profile polygon between
// two consecutive sections.
type SegmentBrush struct {
	// Index is the position of the brush in the extrusion output.
	Index int
	// Step is the index of the section the brush starts at.
	Step int
	// Polygon is the profile polygon the brush was swept from.
	Polygon int
	// Faces lists the start cap, the end cap and then the side faces in
	// polygon-edge order. A split side quad contributes two triangles.
	Faces []Face
	// Vertices holds the start loop followed by the end loop.
	Vertices []geom.Vec3
}

// Centroid returns the average of the brush's vertices.
func (s SegmentBrush) Centroid() geom.Vec3 {
	return geom.Centroid(s.Vertices)
}

// newellNormal returns the area-weighted normal of a loop.
func newellNormal(l Loop) geom.Vec3 {
	var n geom.Vec3
	for i, p := range l {
		q := l[(i+1)%len(l)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// segment builds the solid between loop a and loop b, which must have
// the same vertex count. Loops wound against the sweep direction are
// reversed first so caps and sides face outward.
func segment(a, b Loop, planarity float64) SegmentBrush {
	sweep := geom.Centroid(b).Sub(geom.Centroid(a))
	if newellNormal(a).Dot(sweep) < 0 {
		a, b = slices.Clone(a), slices.Clone(b)
		slices.Reverse(a)
		slices.Reverse(b)
	}

	m := len(a)
	start := slices.Clone(a)
	slices.Reverse(start)
	faces := make([]Face, 0, m+2)
	faces = append(faces,
		Face{Kind: StartCap, Loop: start},
		Face{Kind: EndCap, Loop: slices.Clone(b)},
	)
	for j := 0; j < m; j++ {
		k := (j + 1) % m
		faces = append(faces, sideFaces(a[j], a[k], b[k], b[j], planarity)...)
	}

	verts := make([]geom.Vec3, 0, 2*m)
	verts = append(verts, a...)
	verts = append(verts, b...)
	return SegmentBrush{Faces: faces, Vertices: verts}
}

// sideFaces returns the quad p0 p1 p2 p3 as one face, or as two triangles
// folded outward along whichever diagonal keeps the solid convex when the
// fourth corner is off the plane of the first three.
func sideFaces(p0, p1, p2, p3 geom.Vec3, planarity float64) []Face {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if l := n.Length(); l > 0 {
		dist := n.MulScalar(1 / l).Dot(p3.Sub(p0))
		switch {
		case dist < -planarity:
			return []Face{
				{Kind: Side, Loop: Loop{p0, p1, p2}},
				{Kind: Side, Loop: Loop{p0, p2, p3}},
			}
		case dist > planarity:
			return []Face{
				{Kind: Side, Loop: Loop{p0, p1, p3}},
				{Kind: Side, Loop: Loop{p1, p2, p3}},
			}
		}
	}
	return []Face{{Kind: Side, Loop: Loop{p0, p1, p2, p3}}}
}
