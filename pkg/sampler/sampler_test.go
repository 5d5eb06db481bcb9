package sampler_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/path"
	"github.com/chazu/curveball/pkg/sampler"
)

func requireOrthonormal(t *testing.T, frames []sampler.Frame) {
	t.Helper()
	for i, f := range frames {
		assert.InDelta(t, 1, f.Tangent.Length(), 1e-9, "frame %d", i)
		assert.InDelta(t, 1, f.Normal.Length(), 1e-9, "frame %d", i)
		assert.InDelta(t, 1, f.Binormal.Length(), 1e-9, "frame %d", i)
		assert.InDelta(t, 0, f.Tangent.Dot(f.Normal), 1e-9, "frame %d", i)
		assert.InDelta(t, 0, f.Tangent.Dot(f.Binormal), 1e-9, "frame %d", i)
		assert.InDelta(t, 0, f.Normal.Dot(f.Binormal), 1e-9, "frame %d", i)
		// Right-handed.
		assert.InDelta(t, 0, f.Tangent.Cross(f.Normal).Sub(f.Binormal).Length(), 1e-9, "frame %d", i)
	}
}

func TestLineFrames(t *testing.T) {
	line, err := path.NewLine(geom.Vec3{}, geom.Vec3{X: 10})
	require.NoError(t, err)

	frames, err := sampler.Sample(line, sampler.Steps(5))
	require.NoError(t, err)
	require.Len(t, frames, 6)
	requireOrthonormal(t, frames)

	for i, f := range frames {
		assert.InDelta(t, float64(i)/5, f.T, 1e-12)
		assert.InDelta(t, 2*float64(i), f.Position.X, 1e-12)
		assert.Equal(t, geom.AxisX, f.Tangent)
		assert.InDelta(t, 1, f.Binormal.Z, 1e-12)
		assert.InDelta(t, 1, f.Normal.Y, 1e-12)
	}
}

func TestVerticalLineUsesFallbackReference(t *testing.T) {
	line, err := path.NewLine(geom.Vec3{}, geom.Vec3{Z: 10})
	require.NoError(t, err)

	frames, err := sampler.Sample(line, sampler.Steps(2))
	require.NoError(t, err)
	requireOrthonormal(t, frames)
	assert.InDelta(t, 1, frames[0].Binormal.X, 1e-12)
}

func TestCustomReference(t *testing.T) {
	line, err := path.NewLine(geom.Vec3{}, geom.Vec3{X: 10})
	require.NoError(t, err)

	frames, err := sampler.Sample(line, sampler.Steps(1), sampler.WithReference(geom.Vec3{X: 1, Y: 1}))
	require.NoError(t, err)
	requireOrthonormal(t, frames)
	assert.InDelta(t, 1, frames[0].Binormal.Y, 1e-12)
}

func TestFramesAreSmooth(t *testing.T) {
	sin, err := path.NewSinusoid(32, 128, 0, 0, 256)
	require.NoError(t, err)
	bez, err := path.NewBezier(geom.Vec3{}, geom.Vec3{X: 64, Y: 64, Z: 32}, geom.Vec3{X: 128, Y: -64, Z: 64}, geom.Vec3{X: 192, Z: 0})
	require.NoError(t, err)
	rev, err := path.NewRevolve(geom.Vec3{}, 64, 0, 360)
	require.NoError(t, err)

	for name, p := range map[string]path.Path{"sinusoid": sin, "bezier": bez, "revolve": rev} {
		t.Run(name, func(t *testing.T) {
			frames, err := sampler.Sample(p, sampler.Steps(256))
			require.NoError(t, err)
			requireOrthonormal(t, frames)
			for i := 1; i < len(frames); i++ {
				a, b := frames[i-1], frames[i]
				assert.Greater(t, a.Tangent.Dot(b.Tangent), math.Cos(geom.Radians(5)), "tangent jump at %d", i)
				assert.Greater(t, a.Normal.Dot(b.Normal), math.Cos(geom.Radians(5)), "twist at %d", i)
			}
		})
	}
}

func TestPlanarRevolveKeepsAxisBinormal(t *testing.T) {
	rev, err := path.NewRevolve(geom.Vec3{}, 64, 0, 360)
	require.NoError(t, err)
	frames, err := sampler.Sample(rev, sampler.Steps(16))
	require.NoError(t, err)
	for _, f := range frames {
		assert.InDelta(t, 1, f.Binormal.Z, 1e-9)
	}
	first, last := frames[0], frames[len(frames)-1]
	assert.InDelta(t, 0, first.Position.Sub(last.Position).Length(), 1e-9)
	assert.InDelta(t, 0, first.Normal.Sub(last.Normal).Length(), 1e-9)
}

func TestStepCountFromTolerance(t *testing.T) {
	line, err := path.NewLine(geom.Vec3{}, geom.Vec3{X: 100})
	require.NoError(t, err)
	n, err := sampler.StepCount(line, sampler.Tolerance(0.01))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rev, err := path.NewRevolve(geom.Vec3{}, 64, 0, 360)
	require.NoError(t, err)
	n, err = sampler.StepCount(rev, sampler.Tolerance(0.5))
	require.NoError(t, err)
	assert.Equal(t, 48, n)

	n, err = sampler.StepCount(rev, sampler.Tolerance(1e-12))
	require.NoError(t, err)
	assert.Equal(t, sampler.MaxSteps, n)

	// A single S-bend passes through its chord midpoint; the quarter probes catch it.
	serp, err := path.NewSerpentine(128, 32, 1)
	require.NoError(t, err)
	n, err = sampler.StepCount(serp, sampler.Tolerance(0.1))
	require.NoError(t, err)
	assert.Greater(t, n, 1)
}

func TestSampleErrors(t *testing.T) {
	line, err := path.NewLine(geom.Vec3{}, geom.Vec3{X: 10})
	require.NoError(t, err)

	_, err = sampler.Sample(line, sampler.Steps(0))
	assert.ErrorIs(t, err, sampler.ErrInvalidStepCount)
	_, err = sampler.Sample(line, sampler.Steps(-3))
	assert.ErrorIs(t, err, sampler.ErrInvalidStepCount)
	_, err = sampler.Sample(line, sampler.Steps(sampler.MaxSteps+1))
	assert.ErrorIs(t, err, sampler.ErrInvalidStepCount)

	point, err := path.NewLine(geom.Vec3{X: 1}, geom.Vec3{X: 1})
	require.NoError(t, err)
	_, err = sampler.Sample(point, sampler.Steps(4))
	assert.ErrorIs(t, err, sampler.ErrDegenerateTangent)

	_, err = sampler.Sample(line, sampler.Steps(4), sampler.WithReference(geom.Vec3{}))
	assert.ErrorIs(t, err, sampler.ErrDegenerateTangent)

	_, err = sampler.Sample(path.Catenary{Span: 10}, sampler.Steps(4))
	assert.ErrorIs(t, err, path.ErrInvalidPath)
}

func TestSingleStep(t *testing.T) {
	sin, err := path.NewSinusoid(8, 64, 0, 0, 64)
	require.NoError(t, err)
	frames, err := sampler.Sample(sin, sampler.Steps(1))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 0.0, frames[0].T)
	assert.Equal(t, 1.0, frames[1].T)
}
