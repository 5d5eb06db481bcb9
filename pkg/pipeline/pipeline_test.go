package pipeline_test

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/curve"
	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/path"
	"github.com/chazu/curveball/pkg/pipeline"
	"github.com/chazu/curveball/pkg/profile"
	"github.com/chazu/curveball/pkg/qmap"
	"github.com/chazu/curveball/pkg/sampler"
)

func octagonJob(t *testing.T) pipeline.Job {
	t.Helper()
	circle, err := profile.NewCircle(8, 1)
	require.NoError(t, err)
	line, err := path.NewLine(geom.Vec3{}, geom.Vec3{X: 10})
	require.NoError(t, err)
	return pipeline.Sweep("", circle, line, sampler.Steps(5))
}

func TestRunSweep(t *testing.T) {
	res, err := pipeline.Run(octagonJob(t))
	require.NoError(t, err)

	brushes := res.Brushes()
	require.Len(t, brushes, 5)
	for _, b := range brushes {
		assert.Len(t, b.Planes(), 10)
		assert.InEpsilon(t, 2*math.Pi, b.Volume(), 0.15)
	}
	assert.True(t, strings.HasPrefix(res.Map, "// Game: Neverball\n// Format: Quake3\n// entity 0\n{\n\"classname\" \"worldspawn\"\n"))
	assert.Equal(t, 5, strings.Count(res.Map, "// brush "))
	assert.Equal(t, res.Document.String(), res.Map)
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := pipeline.Run(octagonJob(t))
	require.NoError(t, err)
	b, err := pipeline.Run(octagonJob(t))
	require.NoError(t, err)
	assert.Equal(t, a.Map, b.Map)
}

func TestRunAllGroups(t *testing.T) {
	tex := brush.TextureParams{Default: brush.Texture{Name: "mtrl/turf-green", ScaleX: 1, ScaleY: 1}}
	bend := pipeline.Generate("bend", curve.DefaultCurveClassic())
	bend.Texture = &tex
	bend.Origin = geom.Vec3{X: 256}
	bend.Rotation = 90

	res, err := pipeline.RunAll([]pipeline.Job{octagonJob(t), bend})
	require.NoError(t, err)
	require.Len(t, res.Parts, 2)
	assert.Equal(t, "job 0", res.Parts[0].Name)
	assert.Equal(t, "bend", res.Parts[1].Name)

	parsed, err := qmap.Parse(strings.NewReader(res.Map))
	require.NoError(t, err)
	require.Len(t, parsed.Entities, 2)
	assert.Len(t, parsed.Entities[0].Brushes, 5)
	assert.Len(t, parsed.Entities[1].Brushes, 24)
	name, _ := parsed.Entities[1].Get("_tb_name")
	assert.Equal(t, "bend", name)
	assert.Equal(t, "mtrl/turf-green", parsed.Entities[1].Brushes[0][0].Texture.Name)

	// Rotated a quarter turn and moved: the arc now starts on +Y around x = 256.
	for _, v := range res.Parts[1].Brushes[0].Vertices() {
		assert.GreaterOrEqual(t, v.X, 256-64-1e-9)
		assert.LessOrEqual(t, v.X, 256+1e-9)
	}

	flat, err := pipeline.RunAll([]pipeline.Job{octagonJob(t), bend}, pipeline.WithGroups(false))
	require.NoError(t, err)
	assert.Len(t, flat.Document.Entities, 1)
	assert.Equal(t, 29, flat.Document.BrushCount())
}

func TestClosedRevolveHasNoOpenCaps(t *testing.T) {
	ring, err := profile.NewAnnulus(4, 8, 16, 0, 0)
	require.NoError(t, err)
	rev, err := path.NewRevolve(geom.Vec3{}, 96, 0, 360)
	require.NoError(t, err)

	res, err := pipeline.Run(pipeline.Sweep("ring", ring, rev, sampler.Steps(24)))
	require.NoError(t, err)
	brushes := res.Brushes()
	require.Len(t, brushes, 96)

	// Every end cap meets the start cap of the brush one step on.
	n := len(brushes)
	for i, b := range brushes {
		next := brushes[(i+4)%n]
		end, start := b.Planes()[1], next.Planes()[0]
		assert.InDelta(t, 0, end.Normal.Add(start.Normal).Length(), 1e-9, "brush %d", i)
		assert.InDelta(t, 0, end.Offset+start.Offset, 1e-9, "brush %d", i)
	}
}

func TestRunErrors(t *testing.T) {
	circle, err := profile.NewCircle(8, 1)
	require.NoError(t, err)
	line, err := path.NewLine(geom.Vec3{}, geom.Vec3{X: 10})
	require.NoError(t, err)
	point, err := path.NewLine(geom.Vec3{}, geom.Vec3{})
	require.NoError(t, err)

	both := pipeline.Generate("", curve.DefaultRayto())
	both.Profile = circle
	badOrigin := octagonJob(t)
	badOrigin.Origin.X = math.Inf(1)
	badCurve := curve.DefaultBank()
	badCurve.N = 0

	tests := []struct {
		name string
		jobs []pipeline.Job
		want error
	}{
		{"no jobs", nil, pipeline.ErrInvalidJob},
		{"empty job", []pipeline.Job{{}}, pipeline.ErrInvalidJob},
		{"no path", []pipeline.Job{{Profile: circle}}, pipeline.ErrInvalidJob},
		{"both", []pipeline.Job{both}, pipeline.ErrInvalidJob},
		{"bad origin", []pipeline.Job{badOrigin}, pipeline.ErrInvalidJob},
		{"no resolution", []pipeline.Job{{Profile: circle, Path: line}}, sampler.ErrInvalidStepCount},
		{"empty profile", []pipeline.Job{{Profile: profile.Profile{}, Path: line, Resolution: sampler.Steps(2)}}, profile.ErrInvalidProfile},
		{"zero length path", []pipeline.Job{pipeline.Sweep("", circle, point, sampler.Steps(2))}, sampler.ErrDegenerateTangent},
		{"bad generator", []pipeline.Job{pipeline.Generate("", badCurve)}, curve.ErrInvalidCurve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := pipeline.RunAll(tt.jobs)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
		})
	}

	tol := geom.DefaultTolerances()
	tol.Planarity = -1
	_, err = pipeline.Run(octagonJob(t), pipeline.WithTolerances(tol))
	assert.ErrorIs(t, err, geom.ErrInvalidTolerance)
}

func TestDegenerateBrushAborts(t *testing.T) {
	rect, err := profile.NewRectangle(4, 4, profile.Center)
	require.NoError(t, err)
	half, err := path.NewRevolve(geom.Vec3{}, 64, 0, 180)
	require.NoError(t, err)

	_, err = pipeline.Run(pipeline.Sweep("", rect, half, sampler.Steps(1)))
	require.ErrorIs(t, err, brush.ErrDegenerateBrush)
}

func TestMetadataAndReference(t *testing.T) {
	job := octagonJob(t)
	res, err := pipeline.Run(job, pipeline.WithMetadata(), pipeline.WithReference(geom.Vec3{Y: 1}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Map, "// entity 0\n"))

	res, err = pipeline.Run(job, pipeline.WithMetadata("made by a test"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Map, "// made by a test\n// entity 0\n"))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	pipeline.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { pipeline.SetLogger(nil) })

	_, err := pipeline.Run(octagonJob(t))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "sampled path")
	assert.Contains(t, out, "path=line")
	assert.Contains(t, out, "run finished")
	assert.Contains(t, out, "brushes=5")

	pipeline.SetLogger(nil)
	buf.Reset()
	_, err = pipeline.Run(octagonJob(t))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
