package pipeline

import (
	"errors"
	"fmt"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/curve"
	"github.com/chazu/curveball/pkg/extrude"
	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/path"
	"github.com/chazu/curveball/pkg/profile"
	"github.com/chazu/curveball/pkg/sampler"
)

// ErrInvalidJob reports a job that names neither or both of a sweep and a
// generator, or carries bad placement values.
var ErrInvalidJob = errors.New("invalid job")

// Job describes one piece of geometry: either a profile swept along a path
// or a specialised generator.
type Job struct {
	// Name labels the job's editor group. Unnamed jobs go into worldspawn.
	Name string

	Profile     profile.Source
	Path        path.Path
	Resolution  sampler.Resolution
	Orientation extrude.Orientation

	Generator curve.Generator

	// Texture overrides Config.Texture when set.
	Texture *brush.TextureParams
	// Origin and Rotation (degrees about +Z) place the finished geometry.
	Origin   geom.Vec3
	Rotation float64
}

// Sweep returns a job sweeping src along p.
func Sweep(name string, src profile.Source, p path.Path, res sampler.Resolution) Job {
	return Job{Name: name, Profile: src, Path: p, Resolution: res}
}

// Generate returns a job running g.
func Generate(name string, g curve.Generator) Job {
	return Job{Name: name, Generator: g}
}

// Label returns the job name, or a positional name when it has none.
func (j Job) Label(i int) string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprintf("job %d", i)
}

// Validate checks the job's shape without running it.
func (j Job) Validate() error {
	sweep := j.Profile != nil || j.Path != nil
	switch {
	case sweep && j.Generator != nil:
		return fmt.Errorf("%w: both a sweep and a generator", ErrInvalidJob)
	case j.Generator != nil:
	case j.Profile == nil:
		return fmt.Errorf("%w: missing profile", ErrInvalidJob)
	case j.Path == nil:
		return fmt.Errorf("%w: missing path", ErrInvalidJob)
	}
	if !geom.Finite3(j.Origin) || !geom.Finite(j.Rotation) {
		return fmt.Errorf("%w: placement must be finite", ErrInvalidJob)
	}
	if j.Orientation < extrude.FollowPath || j.Orientation > extrude.FixedXY {
		return fmt.Errorf("%w: unknown orientation %v", ErrInvalidJob, j.Orientation)
	}
	return nil
}

func (j Job) placed() bool {
	return j.Origin != (geom.Vec3{}) || j.Rotation != 0
}

// segments runs the geometric stages up to, but not including, brush
// validation.
func (j Job) segments(cfg Config) ([]extrude.SegmentBrush, error) {
	if j.Generator != nil {
		segs, err := j.Generator.Segments(extrude.WithPlanarity(cfg.Tolerances.Planarity))
		if err != nil {
			return nil, err
		}
		if j.placed() {
			segs = extrude.Place(segs, j.Origin, j.Rotation)
		}
		return segs, nil
	}

	if j.Profile.At(0).Len() == 0 {
		return nil, fmt.Errorf("%w: no polygons", profile.ErrInvalidProfile)
	}
	sopts := []sampler.Option{sampler.WithTolerances(cfg.Tolerances)}
	if cfg.Reference != (geom.Vec3{}) {
		sopts = append(sopts, sampler.WithReference(cfg.Reference))
	}
	frames, err := sampler.Sample(j.Path, j.Resolution, sopts...)
	if err != nil {
		return nil, err
	}
	Logger().Debug("sampled path", "path", path.Name(j.Path), "frames", len(frames))

	eopts := []extrude.Option{
		extrude.WithClosed(j.Path.Closed()),
		extrude.WithOrientation(j.Orientation),
		extrude.WithPlanarity(cfg.Tolerances.Planarity),
	}
	if j.placed() {
		eopts = append(eopts, extrude.WithPlacement(j.Origin, j.Rotation))
	}
	return extrude.Extrude(j.Profile, frames, eopts...)
}
