// Package tessellate turns finished brushes into triangle meshes using a
// geometry kernel. One mesh is produced per brush, or per part when whole
// jobs are previewed as units.
package tessellate

import (
	"fmt"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/kernel"
	"github.com/chazu/curveball/pkg/pipeline"
	"github.com/chazu/curveball/pkg/qmap"
)

// HalfSpaces returns the bounding half-spaces of b.
func HalfSpaces(b *brush.Brush) []kernel.HalfSpace {
	planes := b.Planes()
	out := make([]kernel.HalfSpace, len(planes))
	for i, p := range planes {
		out[i] = kernel.HalfSpace{Normal: p.Normal, Offset: p.Offset}
	}
	return out
}

// Tessellate produces one mesh per brush. The brushes are never mutated.
func Tessellate(brushes []*brush.Brush, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(brushes))
	for i, b := range brushes {
		solid, err := k.Convex(HalfSpaces(b))
		if err != nil {
			return nil, fmt.Errorf("tessellate: brush %d: %w", i, err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for brush %d: %w", i, err)
		}
		mesh.PartName = fmt.Sprintf("brush %d", b.Index())
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Parts produces one mesh per part by uniting its brushes.
func Parts(parts []pipeline.Part, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		var solid kernel.Solid
		for i, b := range p.Brushes {
			s, err := k.Convex(HalfSpaces(b))
			if err != nil {
				return nil, fmt.Errorf("tessellate: part %s: brush %d: %w", p.Name, i, err)
			}
			if solid == nil {
				solid = s
			} else {
				solid = k.Union(solid, s)
			}
		}
		if solid == nil {
			continue
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for part %s: %w", p.Name, err)
		}
		mesh.PartName = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Map produces one mesh per brush of a parsed map, so existing map files
// can be previewed. Brushes are named "entity i brush j".
func Map(m *qmap.ParsedMap, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for i, e := range m.Entities {
		for j, recs := range e.Brushes {
			planes := make([]kernel.HalfSpace, len(recs))
			for r, rec := range recs {
				n, d, err := rec.Plane()
				if err != nil {
					return nil, fmt.Errorf("tessellate: entity %d brush %d plane %d: %w", i, j, r, err)
				}
				planes[r] = kernel.HalfSpace{Normal: n, Offset: d}
			}
			solid, err := k.Convex(planes)
			if err != nil {
				return nil, fmt.Errorf("tessellate: entity %d brush %d: %w", i, j, err)
			}
			mesh, err := k.ToMesh(solid)
			if err != nil {
				return nil, fmt.Errorf("tessellate: ToMesh failed for entity %d brush %d: %w", i, j, err)
			}
			mesh.PartName = fmt.Sprintf("entity %d brush %d", i, j)
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}
