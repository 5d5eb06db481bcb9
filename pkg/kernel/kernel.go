// Package kernel defines the preview geometry kernel interface. Brushes
// are handed over as half-space lists; implementations (polytope, sdfx)
// turn them into solids and triangle meshes for display.
package kernel

import (
	"github.com/chazu/curveball/pkg/geom"
)

// HalfSpace is the region Normal·x <= Offset.
type HalfSpace struct {
	Normal geom.Vec3
	Offset float64
}

// Contains reports whether p lies inside the half-space, within eps.
func (h HalfSpace) Contains(p geom.Vec3, eps float64) bool {
	return h.Normal.Dot(p)-h.Offset <= eps
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the preview geometry kernel interface.
type Kernel interface {
	// Convex builds the bounded intersection of the half-spaces.
	Convex(planes []HalfSpace) (Solid, error)

	Union(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh triangulates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
