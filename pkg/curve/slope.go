package curve

import (
	"math"

	"github.com/chazu/curveball/pkg/extrude"
	"github.com/chazu/curveball/pkg/geom"
)

// Heights holds the four corner heights of a CurveSlope cross-section.
type Heights struct {
	InnerTop    float64
	InnerBottom float64
	OuterTop    float64
	OuterBottom float64
}

func (h Heights) values() []float64 {
	return []float64{h.InnerTop, h.InnerBottom, h.OuterTop, h.OuterBottom}
}

// CurveSlope is a ring section whose corner heights are interpolated from
// Start to End along the arc, plus a cosine Hill bump that is zero at both
// ends and peaks halfway. Each step is split into two wedge brushes so
// that twisted sections stay convex.
type CurveSlope struct {
	N            int
	InnerRadius0 float64
	OuterRadius0 float64
	InnerRadius1 float64
	OuterRadius1 float64
	StartAngle   float64
	EndAngle     float64
	Start        Heights
	End          Heights
	Hill         Heights
}

// DefaultCurveSlope returns a half ring that climbs 24 units.
func DefaultCurveSlope() CurveSlope {
	return CurveSlope{
		N:            24,
		InnerRadius0: 32,
		OuterRadius0: 64,
		InnerRadius1: 32,
		OuterRadius1: 64,
		EndAngle:     180,
		Start:        ConstantThickness(0, 0, 8),
		End:          ConstantThickness(24, 24, 8),
	}
}

// ConstantThickness returns heights whose tops sit t above the bottoms.
func ConstantThickness(innerBottom, outerBottom, t float64) Heights {
	return Heights{InnerTop: innerBottom + t, InnerBottom: innerBottom, OuterTop: outerBottom + t, OuterBottom: outerBottom}
}

func (CurveSlope) Name() string { return "curve-slope" }
func (CurveSlope) sealed()      {}

func (c CurveSlope) validate() error {
	if err := checkCount(c.N); err != nil {
		return err
	}
	vals := []float64{c.InnerRadius0, c.OuterRadius0, c.InnerRadius1, c.OuterRadius1, c.StartAngle, c.EndAngle}
	vals = append(vals, c.Start.values()...)
	vals = append(vals, c.End.values()...)
	vals = append(vals, c.Hill.values()...)
	if err := checkFinite(vals...); err != nil {
		return err
	}
	if c.InnerRadius0 < 0 || c.InnerRadius1 < 0 {
		return invalid("inner radii must not be negative")
	}
	if c.OuterRadius0 <= c.InnerRadius0 || c.OuterRadius1 <= c.InnerRadius1 {
		return invalid("outer radius must exceed inner radius at both ends")
	}
	if c.StartAngle == c.EndAngle {
		return invalid("start and end angle are both %v", c.StartAngle)
	}
	return nil
}

func (c CurveSlope) Segments(opts ...extrude.Option) ([]extrude.SegmentBrush, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	ri := arc(c.InnerRadius0, c.InnerRadius1, c.N)
	ro := arc(c.OuterRadius0, c.OuterRadius1, c.N)
	theta := arc(c.StartAngle, c.EndAngle, c.N)
	phase := arc(-math.Pi, math.Pi, c.N)

	type corners struct{ it, ib, ot, ob geom.Vec3 }
	sec := make([]corners, c.N+1)
	for i := range sec {
		t := float64(i) / float64(c.N)
		bump := (1 + math.Cos(phase[i])) / 2
		h := func(start, end, hill float64) float64 {
			return start + (end-start)*t + hill*bump
		}
		sec[i] = corners{
			it: at(ri[i], theta[i], h(c.Start.InnerTop, c.End.InnerTop, c.Hill.InnerTop)),
			ib: at(ri[i], theta[i], h(c.Start.InnerBottom, c.End.InnerBottom, c.Hill.InnerBottom)),
			ot: at(ro[i], theta[i], h(c.Start.OuterTop, c.End.OuterTop, c.Hill.OuterTop)),
			ob: at(ro[i], theta[i], h(c.Start.OuterBottom, c.End.OuterBottom, c.Hill.OuterBottom)),
		}
	}

	out := make([]extrude.SegmentBrush, 0, 2*c.N)
	for i := 0; i < c.N; i++ {
		a, b := sec[i], sec[i+1]
		// Both wedges are vertical triangular prisms sharing the
		// a.inner-b.outer diagonal wall.
		wedges := [2][2]extrude.Loop{
			{{a.it, a.ot, b.ot}, {a.ib, a.ob, b.ob}},
			{{a.it, b.ot, b.it}, {a.ib, b.ob, b.ib}},
		}
		for _, w := range wedges {
			segs, err := extrude.Connect([][]extrude.Loop{{w[0]}, {w[1]}}, opts...)
			if err != nil {
				return nil, err
			}
			segs[0].Step = i
			out = append(out, segs[0])
		}
	}
	return renumber(out), nil
}
