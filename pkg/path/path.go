// Package path describes the curves a profile is swept along.
//
// Path is a closed set of variants: Line, Revolve, Sinusoid, Bezier,
// Catenary and Serpentine. Each one maps a parameter t in [0, 1] to a
// position and the raw (unnormalised) derivative at that position. Build
// variants with their New* constructors, which validate parameters and
// precompute whatever the evaluation needs.
package path

import (
	"errors"
	"fmt"

	"github.com/chazu/curveball/pkg/geom"
)

// ErrInvalidPath is returned for path parameters that do not describe a curve.
var ErrInvalidPath = errors.New("invalid path")

// Path is implemented only by the variants in this package.
type Path interface {
	// Evaluate returns the position at t and its derivative with respect to t.
	Evaluate(t float64) (pos, tangent geom.Vec3)
	// Closed reports whether the curve ends where it starts and the sweep
	// should be welded into a ring.
	Closed() bool

	sealed()
}

var (
	_ Path = Line{}
	_ Path = Revolve{}
	_ Path = Sinusoid{}
	_ Path = Bezier{}
	_ Path = Catenary{}
	_ Path = Serpentine{}
)

// Validate re-checks the parameters of any path variant.
func Validate(p Path) error {
	switch v := p.(type) {
	case Line:
		return v.validate()
	case Revolve:
		return v.validate()
	case Sinusoid:
		return v.validate()
	case Bezier:
		return v.validate()
	case Catenary:
		return v.validate()
	case Serpentine:
		return v.validate()
	case nil:
		return fmt.Errorf("%w: nil path", ErrInvalidPath)
	}
	return fmt.Errorf("%w: unsupported path %T", ErrInvalidPath, p)
}

// Name returns a short lowercase name for the variant, for logs and errors.
func Name(p Path) string {
	switch p.(type) {
	case Line:
		return "line"
	case Revolve:
		return "revolve"
	case Sinusoid:
		return "sinusoid"
	case Bezier:
		return "bezier"
	case Catenary:
		return "catenary"
	case Serpentine:
		return "serpentine"
	}
	return fmt.Sprintf("%T", p)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPath, fmt.Sprintf(format, args...))
}
