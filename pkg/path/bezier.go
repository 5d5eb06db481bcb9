package path

import (
	"slices"

	"github.com/chazu/curveball/pkg/geom"
)

// Bezier is the Bézier curve over two or more control points.
type Bezier struct {
	Points []geom.Vec3
}

// NewBezier copies the control points and returns a Bezier.
func NewBezier(points ...geom.Vec3) (Bezier, error) {
	b := Bezier{Points: slices.Clone(points)}
	return b, b.validate()
}

func (b Bezier) validate() error {
	if len(b.Points) < 2 {
		return invalid("bezier needs at least 2 control points, got %d", len(b.Points))
	}
	for i, p := range b.Points {
		if !geom.Finite3(p) {
			return invalid("bezier control point %d is not finite", i)
		}
	}
	return nil
}

// Evaluate uses de Casteljau's algorithm for the position and the
// hodograph n·Σ(P[i+1]-P[i]) for the derivative.
func (b Bezier) Evaluate(t float64) (geom.Vec3, geom.Vec3) {
	n := len(b.Points) - 1
	diff := make([]geom.Vec3, n)
	for i := range diff {
		diff[i] = b.Points[i+1].Sub(b.Points[i]).MulScalar(float64(n))
	}
	return casteljau(b.Points, t), casteljau(diff, t)
}

func casteljau(pts []geom.Vec3, t float64) geom.Vec3 {
	work := slices.Clone(pts)
	for k := len(work) - 1; k > 0; k-- {
		for i := 0; i < k; i++ {
			work[i] = geom.Lerp3(work[i], work[i+1], t)
		}
	}
	return work[0]
}

func (Bezier) Closed() bool { return false }
func (Bezier) sealed()      {}
