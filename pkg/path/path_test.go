package path_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/path"
)

// numericTangent differentiates p with a central difference.
func numericTangent(p path.Path, t float64) geom.Vec3 {
	const h = 1e-6
	a, _ := p.Evaluate(t - h)
	b, _ := p.Evaluate(t + h)
	return b.Sub(a).MulScalar(1 / (2 * h))
}

func mustPath[T path.Path](t *testing.T, p T, err error) T {
	t.Helper()
	require.NoError(t, err)
	return p
}

func TestTangentsMatchDerivative(t *testing.T) {
	line, err := path.NewLine(geom.Vec3{X: 1, Y: 2, Z: 3}, geom.Vec3{X: 4, Y: -2, Z: 8})
	revolve, err2 := path.NewRevolve(geom.Vec3{X: 5}, 64, 30, 300)
	sinusoid, err3 := path.NewSinusoid(16, 128, 8, 0, 256)
	bezier, err4 := path.NewBezier(geom.Vec3{}, geom.Vec3{X: 32, Z: 64}, geom.Vec3{X: 96, Y: 16, Z: -32}, geom.Vec3{X: 128})
	catenary, err5 := path.NewCatenary(128, 32, 160)
	serpentine, err6 := path.NewSerpentine(256, 32, 3)

	paths := map[string]path.Path{
		"line":       mustPath(t, line, err),
		"revolve":    mustPath(t, revolve, err2),
		"sinusoid":   mustPath(t, sinusoid, err3),
		"bezier":     mustPath(t, bezier, err4),
		"catenary":   mustPath(t, catenary, err5),
		"serpentine": mustPath(t, serpentine, err6),
	}
	for name, p := range paths {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, path.Validate(p))
			for _, tt := range []float64{0.05, 0.3, 0.45, 0.7, 0.95} {
				_, tan := p.Evaluate(tt)
				want := numericTangent(p, tt)
				assert.InDelta(t, 0, tan.Sub(want).Length(), 1e-3*math.Max(1, want.Length()),
					"t=%v tangent %v, numeric %v", tt, tan, want)
			}
		})
	}
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		p          path.Path
		err        error
		start, end geom.Vec3
	}{}
	add := func(name string, p path.Path, err error, start, end geom.Vec3) {
		tests = append(tests, struct {
			name       string
			p          path.Path
			err        error
			start, end geom.Vec3
		}{name, p, err, start, end})
	}
	l, err := path.NewLine(geom.Vec3{}, geom.Vec3{Z: 10})
	add("line", l, err, geom.Vec3{}, geom.Vec3{Z: 10})
	r, err := path.NewRevolve(geom.Vec3{}, 2, 0, 90)
	add("revolve", r, err, geom.Vec3{X: 2}, geom.Vec3{Y: 2})
	b, err := path.NewBezier(geom.Vec3{X: 1}, geom.Vec3{X: 5, Z: 5}, geom.Vec3{X: 9})
	add("bezier", b, err, geom.Vec3{X: 1}, geom.Vec3{X: 9})
	c, err := path.NewCatenary(128, 24, 150)
	add("catenary", c, err, geom.Vec3{}, geom.Vec3{X: 128, Z: 24})
	s, err := path.NewSerpentine(128, 32, 1)
	add("serpentine", s, err, geom.Vec3{}, geom.Vec3{X: 128, Z: 32})
	s2, err := path.NewSerpentine(128, 32, 2)
	add("serpentine pair", s2, err, geom.Vec3{}, geom.Vec3{X: 128})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.err)
			p0, _ := tt.p.Evaluate(0)
			p1, _ := tt.p.Evaluate(1)
			assert.InDelta(t, 0, p0.Sub(tt.start).Length(), 1e-6)
			assert.InDelta(t, 0, p1.Sub(tt.end).Length(), 1e-6)
		})
	}
}

func TestCatenaryLength(t *testing.T) {
	for _, height := range []float64{0, 24, -40} {
		c, err := path.NewCatenary(128, height, 150)
		require.NoError(t, err)
		var length float64
		prev, _ := c.Evaluate(0)
		const steps = 20000
		for i := 1; i <= steps; i++ {
			p, _ := c.Evaluate(float64(i) / steps)
			length += p.Sub(prev).Length()
			prev = p
		}
		assert.InDelta(t, 150, length, 1e-3, "height %v", height)
	}
}

func TestSerpentineMidpointIsSmooth(t *testing.T) {
	s, err := path.NewSerpentine(100, 40, 1)
	require.NoError(t, err)
	mid, tan := s.Evaluate(0.5)
	assert.InDelta(t, 50, mid.X, 1e-9)
	assert.InDelta(t, 20, mid.Z, 1e-9)

	_, before := s.Evaluate(0.5 - 1e-9)
	assert.InDelta(t, 0, before.Normalize().Sub(tan.Normalize()).Length(), 1e-6)
}

func TestRevolveClosed(t *testing.T) {
	full, err := path.NewRevolve(geom.Vec3{}, 10, 0, 360)
	require.NoError(t, err)
	assert.True(t, full.Closed())

	half, err := path.NewRevolve(geom.Vec3{}, 10, 0, 180)
	require.NoError(t, err)
	assert.False(t, half.Closed())

	tilted := path.Revolve{Axis: geom.AxisX, Radius: 3, StartAngle: 0, EndAngle: 90}
	require.NoError(t, path.Validate(tilted))
	p, tan := tilted.Evaluate(0.5)
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 3, p.Length(), 1e-12)
	assert.InDelta(t, 0, tan.Dot(geom.AxisX), 1e-12)
}

func TestInvalidParameters(t *testing.T) {
	_, err := path.NewSinusoid(1, 0, 0, 0, 10)
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	_, err = path.NewBezier(geom.Vec3{})
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	_, err = path.NewCatenary(128, 0, 100)
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	_, err = path.NewSerpentine(10, 20, 1)
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	_, err = path.NewSerpentine(10, 2, 0)
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	_, err = path.NewRevolve(geom.Vec3{}, -1, 0, 90)
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	_, err = path.NewRevolve(geom.Vec3{}, 1, 0, 720)
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	_, err = path.NewLine(geom.Vec3{X: math.NaN()}, geom.Vec3{})
	assert.ErrorIs(t, err, path.ErrInvalidPath)

	assert.ErrorIs(t, path.Validate(path.Catenary{Span: 10, Length: 20}), path.ErrInvalidPath)
	assert.ErrorIs(t, path.Validate(nil), path.ErrInvalidPath)
}

func TestName(t *testing.T) {
	assert.Equal(t, "line", path.Name(path.Line{}))
	assert.Equal(t, "serpentine", path.Name(path.Serpentine{}))
}
