// Package polytope implements kernel.Kernel with exact boundary polygons.
// Convex solids are built by clipping each face plane against the others,
// so the preview shows brush faces exactly as an editor would.
package polytope

import (
	"math"

	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*Kernel)(nil)
var _ kernel.Solid = (*solid)(nil)

// solid is a set of boundary polygons. Unions keep every input face, so
// overlapping parts render with interior faces.
type solid struct {
	faces [][]geom.Vec3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *solid) BoundingBox() (min, max [3]float64) {
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, f := range s.faces {
		for _, v := range f {
			for i, c := range [3]float64{v.X, v.Y, v.Z} {
				min[i] = math.Min(min[i], c)
				max[i] = math.Max(max[i], c)
			}
		}
	}
	return min, max
}

// Faces returns copies of the boundary polygons.
func (s *solid) Faces() [][]geom.Vec3 {
	out := make([][]geom.Vec3, len(s.faces))
	for i, f := range s.faces {
		out[i] = append([]geom.Vec3(nil), f...)
	}
	return out
}

// Kernel implements kernel.Kernel with exact polygons.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s kernel.Solid) *solid {
	return s.(*solid)
}

// Convex clips every plane against the others.
func (k *Kernel) Convex(planes []kernel.HalfSpace) (kernel.Solid, error) {
	faces, err := kernel.Windings(planes)
	if err != nil {
		return nil, err
	}
	return &solid{faces: faces}, nil
}

// Union returns both solids' faces together.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	faces := make([][]geom.Vec3, 0, len(sa.faces)+len(sb.faces))
	faces = append(faces, sa.faces...)
	faces = append(faces, sb.faces...)
	return &solid{faces: faces}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := geom.Vec3{X: x, Y: y, Z: z}
	src := unwrap(s)
	faces := make([][]geom.Vec3, len(src.faces))
	for i, f := range src.faces {
		moved := make([]geom.Vec3, len(f))
		for j, v := range f {
			moved[j] = v.Add(d)
		}
		faces[i] = moved
	}
	return &solid{faces: faces}
}

// ToMesh fans every face into triangles with flat normals.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	m := &kernel.Mesh{}
	for _, f := range unwrap(s).faces {
		m.Append(f)
	}
	return m, nil
}
