package geom_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/curveball/pkg/geom"
)

func TestFinite(t *testing.T) {
	assert.True(t, geom.Finite(1.5))
	assert.False(t, geom.Finite(math.NaN()))
	assert.False(t, geom.Finite(math.Inf(-1)))
	assert.True(t, geom.Finite3(geom.Vec3{X: 1, Y: 2, Z: 3}))
	assert.False(t, geom.Finite3(geom.Vec3{Z: math.Inf(1)}))
	assert.False(t, geom.Finite2(geom.Vec2{X: math.NaN()}))
	assert.True(t, geom.AllFinite())
	assert.False(t, geom.AllFinite(1, 2, math.NaN()))
}

func TestRotate(t *testing.T) {
	v := geom.Rotate(geom.AxisX, geom.AxisZ, geom.Radians(90))
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 1, v.Y, 1e-12)
	assert.InDelta(t, 0, v.Z, 1e-12)

	// Components along the axis are untouched.
	w := geom.Rotate(geom.Vec3{X: 1, Z: 5}, geom.AxisZ, geom.Radians(180))
	assert.InDelta(t, -1, w.X, 1e-12)
	assert.InDelta(t, 5, w.Z, 1e-12)
}

func TestHelpers(t *testing.T) {
	assert.InDelta(t, math.Pi, geom.Radians(180), 1e-15)
	assert.Equal(t, 2.5, geom.Lerp(0, 10, 0.25))
	assert.Equal(t, geom.Vec3{X: 1, Y: 2, Z: 3}, geom.Lerp3(geom.Vec3{}, geom.Vec3{X: 2, Y: 4, Z: 6}, 0.5))

	assert.Equal(t, geom.Vec3{}, geom.Centroid(nil))
	c := geom.Centroid([]geom.Vec3{{X: 0}, {X: 2}, {X: 4, Y: 3}})
	assert.InDelta(t, 2, c.X, 1e-12)
	assert.InDelta(t, 1, c.Y, 1e-12)

	p := geom.PolarXY(2, geom.Radians(90))
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 2, p.Y, 1e-12)
}

func TestDominantAxis(t *testing.T) {
	tests := []struct {
		n    geom.Vec3
		want int
	}{
		{geom.Vec3{X: -3, Y: 1, Z: 1}, 0},
		{geom.Vec3{X: 1, Y: 2, Z: -1}, 1},
		{geom.Vec3{Z: -1}, 2},
		// Ties go to Z, then Y.
		{geom.Vec3{X: 1, Y: 1, Z: 1}, 2},
		{geom.Vec3{X: 1, Y: -1}, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, geom.DominantAxis(tt.n), "normal %v", tt.n)
	}
}

func TestTolerances(t *testing.T) {
	require.NoError(t, geom.DefaultTolerances().Validate())

	bad := geom.DefaultTolerances()
	bad.Planarity = -1
	assert.ErrorIs(t, bad.Validate(), geom.ErrInvalidTolerance)

	bad = geom.DefaultTolerances()
	bad.Convexity = math.NaN()
	assert.ErrorIs(t, bad.Validate(), geom.ErrInvalidTolerance)

	bad = geom.DefaultTolerances()
	bad.MinThickness = math.Inf(1)
	assert.ErrorIs(t, bad.Validate(), geom.ErrInvalidTolerance)

	bad = geom.DefaultTolerances()
	bad.Zero = 0
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero must be positive")

	// Zero slack is allowed everywhere but the zero threshold.
	strict := geom.DefaultTolerances()
	strict.Planarity, strict.Convexity, strict.Interior = 0, 0, 0
	strict.MinThickness = 0
	assert.NoError(t, strict.Validate())
}
