package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidTolerance is returned by Tolerances.Validate.
var ErrInvalidTolerance = errors.New("geom: invalid tolerance")

// Tolerances collects every numeric threshold used by the pipeline.
// All lengths are in map units.
type Tolerances struct {
	// Zero is the length below which a vector is treated as zero
	// (tangent magnitude, collinearity of three points).
	Zero float64
	// Planarity is the largest distance a face vertex may sit from the
	// plane through the face's widest vertex triangle. Side quads
	// exceeding it are split in two triangles.
	Planarity float64
	// Convexity is the largest distance a brush vertex may sit outside
	// any of the brush's planes.
	Convexity float64
	// Interior is the depth by which the vertex centroid must lie inside
	// every plane.
	Interior float64
	// Parallel bounds 1+n1·n2 for two normals to count as anti-parallel.
	Parallel float64
	// MinVolume is the smallest accepted brush volume.
	MinVolume float64
	// MinThickness is the smallest accepted volume to widest-face-area
	// ratio. Slabs thinner than this cannot survive the map's six
	// decimal places. Zero disables the check.
	MinThickness float64
}

// DefaultTolerances returns the tolerances used when the caller sets none.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Zero:      1e-9,
		Planarity: 1e-6,
		Convexity: 1e-6,
		Interior:  1e-9,
		Parallel:  1e-9,
		MinVolume: 1e-6,

		MinThickness: 1e-3,
	}
}

// Validate checks that every tolerance is finite and non-negative and that
// the zero threshold is positive.
func (t Tolerances) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"zero", t.Zero},
		{"planarity", t.Planarity},
		{"convexity", t.Convexity},
		{"interior", t.Interior},
		{"parallel", t.Parallel},
		{"min volume", t.MinVolume},
		{"min thickness", t.MinThickness},
	}
	for _, f := range fields {
		if !Finite(f.v) || f.v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidTolerance, f.name, f.v)
		}
	}
	if t.Zero == 0 {
		return fmt.Errorf("%w: zero must be positive", ErrInvalidTolerance)
	}
	return nil
}
