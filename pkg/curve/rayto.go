package curve

import (
	"github.com/chazu/curveball/pkg/extrude"
	"github.com/chazu/curveball/pkg/geom"
)

// Rayto fills the region between an arc and the apex point (X, Y) with one
// triangular prism per arc step. Neighbouring prisms share the ray from the
// apex to their common arc point, so their faces coincide exactly.
type Rayto struct {
	N           int
	StartRadius float64
	EndRadius   float64
	StartAngle  float64
	EndAngle    float64
	X           float64
	Y           float64
	Height      float64
}

// DefaultRayto fills a quarter circle of radius 32 out to its corner.
func DefaultRayto() Rayto {
	return Rayto{
		N:           12,
		StartRadius: 32,
		EndRadius:   32,
		EndAngle:    90,
		X:           32,
		Y:           32,
		Height:      8,
	}
}

func (Rayto) Name() string { return "rayto" }
func (Rayto) sealed()      {}

func (r Rayto) validate() error {
	if err := checkCount(r.N); err != nil {
		return err
	}
	if err := checkFinite(r.StartRadius, r.EndRadius, r.StartAngle, r.EndAngle, r.X, r.Y, r.Height); err != nil {
		return err
	}
	if r.StartRadius < 0 || r.EndRadius < 0 {
		return invalid("radii must not be negative")
	}
	if r.Height <= 0 {
		return invalid("height %v must be positive", r.Height)
	}
	if r.StartAngle == r.EndAngle {
		return invalid("start and end angle are both %v", r.StartAngle)
	}
	return nil
}

// ArcPoints returns the N+1 points on the arc at z = 0.
func (r Rayto) ArcPoints() []geom.Vec3 {
	radius := arc(r.StartRadius, r.EndRadius, r.N)
	theta := arc(r.StartAngle, r.EndAngle, r.N)
	pts := make([]geom.Vec3, r.N+1)
	for i := range pts {
		pts[i] = at(radius[i], theta[i], 0)
	}
	return pts
}

func (r Rayto) Segments(opts ...extrude.Option) ([]extrude.SegmentBrush, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	apex := geom.Vec3{X: r.X, Y: r.Y}
	up := geom.Vec3{Z: r.Height}
	pts := r.ArcPoints()

	out := make([]extrude.SegmentBrush, r.N)
	for i := range out {
		seg, err := extrude.Prism(extrude.Loop{apex, pts[i], pts[i+1]}, up, opts...)
		if err != nil {
			return nil, err
		}
		seg.Step = i
		out[i] = seg
	}
	return renumber(out), nil
}
