package curve

import (
	"github.com/chazu/curveball/pkg/extrude"
)

// CurveClassic is a flat ring section of constant thickness. The inner and
// outer radii are interpolated linearly from start to end angle.
type CurveClassic struct {
	N            int
	InnerRadius0 float64
	OuterRadius0 float64
	InnerRadius1 float64
	OuterRadius1 float64
	StartAngle   float64
	EndAngle     float64
	Thickness    float64
}

// DefaultCurveClassic returns a quarter ring 32 units wide.
func DefaultCurveClassic() CurveClassic {
	return CurveClassic{
		N:            24,
		InnerRadius0: 32,
		OuterRadius0: 64,
		InnerRadius1: 32,
		OuterRadius1: 64,
		EndAngle:     90,
		Thickness:    8,
	}
}

func (CurveClassic) Name() string { return "curve-classic" }
func (CurveClassic) sealed()      {}

func (c CurveClassic) validate() error {
	if err := checkCount(c.N); err != nil {
		return err
	}
	if err := checkFinite(c.InnerRadius0, c.OuterRadius0, c.InnerRadius1, c.OuterRadius1,
		c.StartAngle, c.EndAngle, c.Thickness); err != nil {
		return err
	}
	if c.InnerRadius0 < 0 || c.InnerRadius1 < 0 {
		return invalid("inner radii must not be negative")
	}
	if c.OuterRadius0 <= c.InnerRadius0 || c.OuterRadius1 <= c.InnerRadius1 {
		return invalid("outer radius must exceed inner radius at both ends")
	}
	if c.Thickness <= 0 {
		return invalid("thickness %v must be positive", c.Thickness)
	}
	if c.StartAngle == c.EndAngle {
		return invalid("start and end angle are both %v", c.StartAngle)
	}
	return nil
}

func (c CurveClassic) Segments(opts ...extrude.Option) ([]extrude.SegmentBrush, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	ri := arc(c.InnerRadius0, c.InnerRadius1, c.N)
	ro := arc(c.OuterRadius0, c.OuterRadius1, c.N)
	theta := arc(c.StartAngle, c.EndAngle, c.N)

	sections := make([][]extrude.Loop, c.N+1)
	for i := range sections {
		sections[i] = []extrude.Loop{{
			at(ri[i], theta[i], 0),
			at(ro[i], theta[i], 0),
			at(ro[i], theta[i], c.Thickness),
			at(ri[i], theta[i], c.Thickness),
		}}
	}
	return extrude.Connect(sections, opts...)
}
