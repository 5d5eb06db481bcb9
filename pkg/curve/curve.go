// Package curve holds single-purpose brush generators that combine a fixed
// cross-section with a circular arc about the Z axis. They emit segment
// brushes like the general sweep, so they share its validation and export.
package curve

import (
	"errors"
	"fmt"

	"github.com/chazu/curveball/pkg/extrude"
	"github.com/chazu/curveball/pkg/geom"
)

// ErrInvalidCurve reports bad generator parameters.
var ErrInvalidCurve = errors.New("invalid curve")

// MaxSegments bounds the segment count of every generator.
const MaxSegments = 4096

// Generator is implemented by CurveClassic, CurveSlope, Rayto and Bank.
type Generator interface {
	// Segments returns the generator's segment brushes in order. The
	// options reach every extrude.Connect or extrude.Prism call.
	Segments(opts ...extrude.Option) ([]extrude.SegmentBrush, error)
	// Name returns the generator's command name, e.g. "curve-classic".
	Name() string
	sealed()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCurve, fmt.Sprintf(format, args...))
}

func checkCount(n int) error {
	if n < 1 {
		return invalid("n = %d, need at least 1 segment", n)
	}
	if n > MaxSegments {
		return invalid("n = %d, at most %d segments", n, MaxSegments)
	}
	return nil
}

func checkFinite(vals ...float64) error {
	if !geom.AllFinite(vals...) {
		return invalid("parameters must be finite")
	}
	return nil
}

// arc returns n+1 evenly spaced values from a to b inclusive.
func arc(a, b float64, n int) []float64 {
	out := make([]float64, n+1)
	for i := range out {
		out[i] = geom.Lerp(a, b, float64(i)/float64(n))
	}
	return out
}

// at returns the point at radius r, angle deg degrees and height z.
func at(r, deg, z float64) geom.Vec3 {
	p := geom.PolarXY(r, geom.Radians(deg))
	p.Z = z
	return p
}

// renumber gives segments consecutive indices and steps in emission order.
func renumber(segs []extrude.SegmentBrush) []extrude.SegmentBrush {
	for i := range segs {
		segs[i].Index = i
	}
	return segs
}
