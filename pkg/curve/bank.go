package curve

import (
	"github.com/chazu/curveball/pkg/extrude"
)

// Bank is a banked turn: a slab of the given Thickness whose top rises
// from z = 0 at InnerRadius to Height at OuterRadius, like the surface of a
// cone. With Fill set the underside is flat at -Thickness.
type Bank struct {
	N           int
	InnerRadius float64
	OuterRadius float64
	StartAngle  float64
	EndAngle    float64
	Height      float64
	Thickness   float64
	Fill        bool
}

// DefaultBank returns a quarter-turn bank rising 64 units.
func DefaultBank() Bank {
	return Bank{
		N:           24,
		InnerRadius: 64,
		OuterRadius: 128,
		EndAngle:    90,
		Height:      64,
		Thickness:   8,
	}
}

func (Bank) Name() string { return "bank" }
func (Bank) sealed()      {}

func (b Bank) validate() error {
	if err := checkCount(b.N); err != nil {
		return err
	}
	if err := checkFinite(b.InnerRadius, b.OuterRadius, b.StartAngle, b.EndAngle, b.Height, b.Thickness); err != nil {
		return err
	}
	if b.InnerRadius < 0 || b.OuterRadius <= b.InnerRadius {
		return invalid("need 0 <= inner radius < outer radius, got %v and %v", b.InnerRadius, b.OuterRadius)
	}
	if b.Thickness <= 0 {
		return invalid("thickness %v must be positive", b.Thickness)
	}
	if b.Fill && b.Height <= -b.Thickness {
		return invalid("a filled bank needs height above %v", -b.Thickness)
	}
	if b.StartAngle == b.EndAngle {
		return invalid("start and end angle are both %v", b.StartAngle)
	}
	return nil
}

func (b Bank) Segments(opts ...extrude.Option) ([]extrude.SegmentBrush, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	outerBottom := b.Height - b.Thickness
	if b.Fill {
		outerBottom = -b.Thickness
	}
	theta := arc(b.StartAngle, b.EndAngle, b.N)
	sections := make([][]extrude.Loop, len(theta))
	for i, th := range theta {
		sections[i] = []extrude.Loop{{
			at(b.InnerRadius, th, -b.Thickness),
			at(b.OuterRadius, th, outerBottom),
			at(b.OuterRadius, th, b.Height),
			at(b.InnerRadius, th, 0),
		}}
	}
	return extrude.Connect(sections, opts...)
}
