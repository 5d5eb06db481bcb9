// Package profile builds the 2D cross-sections swept along a path.
//
// A Profile is an ordered list of strictly convex, simple polygons, all
// wound counter-clockwise. Shapes that are not convex themselves (wide
// circle sectors, rings) are decomposed into convex pieces when they are
// built, so every later stage can treat each polygon as the base of one
// convex brush. Profiles are immutable: accessors hand out copies.
package profile

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/chazu/curveball/pkg/geom"
)

// ErrInvalidProfile is returned when a profile cannot be built from the
// supplied parameters.
var ErrInvalidProfile = errors.New("invalid profile")

// MaxSides bounds every subdivision count accepted by the builders.
const MaxSides = 4096

// convexEps is the relative turn below which a corner counts as straight.
const convexEps = 1e-9

// Polygon is a strictly convex counter-clockwise loop of at least three
// vertices.
type Polygon struct {
	pts []geom.Vec2
}

// Len returns the vertex count.
func (p Polygon) Len() int { return len(p.pts) }

// At returns vertex i.
func (p Polygon) At(i int) geom.Vec2 { return p.pts[i] }

// Vertices returns a copy of the vertex loop.
func (p Polygon) Vertices() []geom.Vec2 { return slices.Clone(p.pts) }

// Area returns the polygon area (positive, since the loop is CCW).
func (p Polygon) Area() float64 {
	return signedArea(p.pts)
}

// Profile is an ordered collection of convex polygons.
type Profile struct {
	polys []Polygon
}

// New validates the given vertex loops and returns a Profile. Loops given
// clockwise are reversed so the whole profile shares one winding.
func New(loops ...[]geom.Vec2) (Profile, error) {
	if len(loops) == 0 {
		return Profile{}, fmt.Errorf("%w: no polygons", ErrInvalidProfile)
	}
	polys := make([]Polygon, 0, len(loops))
	for i, loop := range loops {
		poly, err := newPolygon(loop)
		if err != nil {
			return Profile{}, fmt.Errorf("polygon %d: %w", i, err)
		}
		polys = append(polys, poly)
	}
	return Profile{polys: polys}, nil
}

// Len returns the number of convex polygons.
func (p Profile) Len() int { return len(p.polys) }

// Polygon returns polygon i.
func (p Profile) Polygon(i int) Polygon { return p.polys[i] }

// Polygons returns the convex pieces in order.
func (p Profile) Polygons() []Polygon { return slices.Clone(p.polys) }

// Area returns the summed area of every polygon.
func (p Profile) Area() float64 {
	var a float64
	for _, poly := range p.polys {
		a += poly.Area()
	}
	return a
}

// VertexCount returns the total number of vertices across all polygons.
func (p Profile) VertexCount() int {
	n := 0
	for _, poly := range p.polys {
		n += poly.Len()
	}
	return n
}

// At implements Source for a constant profile.
func (p Profile) At(float64) Profile { return p }

// Transform rotates every vertex by twist radians about the profile origin
// and then scales it. A positive scale keeps every polygon convex and CCW.
func (p Profile) Transform(scale, twist float64) Profile {
	c, s := math.Cos(twist), math.Sin(twist)
	polys := make([]Polygon, len(p.polys))
	for i, poly := range p.polys {
		pts := make([]geom.Vec2, len(poly.pts))
		for j, v := range poly.pts {
			pts[j] = geom.Vec2{
				X: (v.X*c - v.Y*s) * scale,
				Y: (v.X*s + v.Y*c) * scale,
			}
		}
		polys[i] = Polygon{pts: pts}
	}
	return Profile{polys: polys}
}

// Translate shifts every vertex by d.
func (p Profile) Translate(d geom.Vec2) Profile {
	polys := make([]Polygon, len(p.polys))
	for i, poly := range p.polys {
		pts := make([]geom.Vec2, len(poly.pts))
		for j, v := range poly.pts {
			pts[j] = v.Add(d)
		}
		polys[i] = Polygon{pts: pts}
	}
	return Profile{polys: polys}
}

func newPolygon(loop []geom.Vec2) (Polygon, error) {
	if len(loop) < 3 {
		return Polygon{}, fmt.Errorf("%w: %d vertices, need at least 3", ErrInvalidProfile, len(loop))
	}
	for i, v := range loop {
		if !geom.Finite2(v) {
			return Polygon{}, fmt.Errorf("%w: vertex %d is not finite", ErrInvalidProfile, i)
		}
	}
	pts := slices.Clone(loop)
	area := signedArea(pts)
	if area == 0 || !geom.Finite(area) {
		return Polygon{}, fmt.Errorf("%w: zero area", ErrInvalidProfile)
	}
	if area < 0 {
		slices.Reverse(pts)
	}
	if err := checkConvex(pts); err != nil {
		return Polygon{}, err
	}
	return Polygon{pts: pts}, nil
}

// checkConvex requires a strict left turn at every corner and a total
// turning of exactly one revolution, which rules out self-intersecting
// star shapes.
func checkConvex(pts []geom.Vec2) error {
	n := len(pts)
	var turning float64
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		c := pts[(i+2)%n]
		e1 := b.Sub(a)
		e2 := c.Sub(b)
		l1, l2 := e1.Length(), e2.Length()
		if l1 == 0 || l2 == 0 {
			return fmt.Errorf("%w: duplicate vertex at %d", ErrInvalidProfile, (i+1)%n)
		}
		cross := e1.X*e2.Y - e1.Y*e2.X
		if cross <= convexEps*l1*l2 {
			return fmt.Errorf("%w: not strictly convex at vertex %d", ErrInvalidProfile, (i+1)%n)
		}
		turning += math.Atan2(cross, e1.X*e2.X+e1.Y*e2.Y)
	}
	if math.Abs(turning-2*math.Pi) > 1e-6 {
		return fmt.Errorf("%w: polygon is not simple", ErrInvalidProfile)
	}
	return nil
}

func signedArea(pts []geom.Vec2) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}
