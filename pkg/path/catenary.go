package path

import (
	"math"

	"github.com/chazu/curveball/pkg/geom"
)

const (
	newtonIterations = 10000
	newtonEpsilon    = 1e-12
)

// Catenary is a hanging rope of the given Length in the XZ plane, running
// from the origin to (Span, 0, Height):
//
//	z(x) = a·cosh((x-k)/a) + c
type Catenary struct {
	Span   float64
	Height float64
	Length float64

	a, k, c float64
}

// NewCatenary solves for the catenary parameters with Newton's method.
// The rope must be longer than the straight chord between its ends.
func NewCatenary(span, height, length float64) (Catenary, error) {
	cat := Catenary{Span: span, Height: height, Length: length}
	if !geom.AllFinite(span, height, length) {
		return cat, invalid("catenary parameters must be finite")
	}
	if span <= 0 {
		return cat, invalid("catenary span %v must be positive", span)
	}
	chord := math.Hypot(span, height)
	if length <= chord {
		return cat, invalid("catenary length %v must exceed the chord %v", length, chord)
	}

	// Substituting a = b·h turns sqrt(s²-v²) = 2a·sinh(h/2a) into a
	// root-finding problem in b that Newton handles well.
	h, v, s := span, height, length
	ratio := math.Sqrt(s*s-v*v) / h
	target := 1 / math.Sqrt(ratio-1)
	f := func(b float64) float64 {
		return 1/math.Sqrt(2*b*math.Sinh(1/(2*b))-1) - target
	}
	df := func(b float64) float64 {
		m := 1 / (2 * b)
		return (m*math.Cosh(m) - math.Sinh(m)) * math.Pow(math.Sinh(m)/m-1, -1.5)
	}

	b := target / (2 * math.Sqrt(6))
	converged := false
	for i := 0; i < newtonIterations; i++ {
		step := f(b) / df(b)
		if !geom.Finite(step) {
			break
		}
		b -= step
		if math.Abs(step) <= newtonEpsilon*math.Max(1, math.Abs(b)) {
			converged = true
			break
		}
	}
	// f is even in b, so a negative root is as good as its mirror.
	b = math.Abs(b)
	if !converged || !geom.Finite(b) || b == 0 {
		return cat, invalid("catenary solve did not converge for span %v, height %v, length %v", span, height, length)
	}

	cat.a = b * h
	cat.k = 0.5 * (h - cat.a*math.Log((s+v)/(s-v)))
	cat.c = -cat.a * math.Cosh(-cat.k/cat.a)
	return cat, nil
}

func (c Catenary) validate() error {
	if c.a <= 0 || !geom.AllFinite(c.a, c.k, c.c) {
		return invalid("catenary was not built with NewCatenary")
	}
	return nil
}

func (c Catenary) Evaluate(t float64) (geom.Vec3, geom.Vec3) {
	x := t * c.Span
	pos := geom.Vec3{X: x, Z: c.a*math.Cosh((x-c.k)/c.a) + c.c}
	tan := geom.Vec3{X: c.Span, Z: c.Span * math.Sinh((x-c.k)/c.a)}
	return pos, tan
}

// Parameters returns the solved a, k and c.
func (c Catenary) Parameters() (a, k, offset float64) { return c.a, c.k, c.c }

func (Catenary) Closed() bool { return false }
func (Catenary) sealed()      {}
