// Package extrude sweeps profiles through sampled frames and emits one
// convex segment brush per profile polygon and frame pair.
package extrude

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/profile"
	"github.com/chazu/curveball/pkg/sampler"
)

var (
	// ErrEmptyPath is returned when there are fewer than two frames or sections.
	ErrEmptyPath = errors.New("empty path")
	// ErrProfileFrameMismatch is returned when sections disagree on their
	// polygon or vertex counts.
	ErrProfileFrameMismatch = errors.New("profile does not match frames")
)

// Orientation chooses how profile coordinates are placed at each frame.
type Orientation int

const (
	// FollowPath maps profile (x, y) onto the frame's normal and binormal.
	FollowPath Orientation = iota
	// FixedXZ keeps the profile in the XZ plane, translated along the path.
	FixedXZ
	// FixedYZ keeps the profile in the YZ plane.
	FixedYZ
	// FixedXY keeps the profile in the XY plane.
	FixedXY
)

func (o Orientation) String() string {
	switch o {
	case FollowPath:
		return "follow"
	case FixedXZ:
		return "xz"
	case FixedYZ:
		return "yz"
	case FixedXY:
		return "xy"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation maps an orientation name back to its value.
func ParseOrientation(s string) (Orientation, error) {
	for _, o := range []Orientation{FollowPath, FixedXZ, FixedYZ, FixedXY} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("extrude: unknown orientation %q", s)
}

type options struct {
	closed      bool
	orientation Orientation
	placement   *sdf.M44
	planarity   float64
}

// Option configures Extrude and Connect.
type Option func(*options)

// WithClosed welds the last section onto the first so a full loop has no
// terminal caps.
func WithClosed(closed bool) Option {
	return func(o *options) { o.closed = closed }
}

// WithOrientation sets how profile coordinates are mapped into space.
func WithOrientation(or Orientation) Option {
	return func(o *options) { o.orientation = or }
}

// WithPlacement rotates the result about +Z by degrees and then moves it
// by origin.
func WithPlacement(origin geom.Vec3, degrees float64) Option {
	return func(o *options) {
		m := sdf.Translate3d(origin).Mul(sdf.RotateZ(geom.Radians(degrees)))
		o.placement = &m
	}
}

// WithPlanarity sets the distance beyond which a side quad is split.
func WithPlanarity(d float64) Option {
	return func(o *options) { o.planarity = d }
}

func collect(opts []Option) options {
	o := options{planarity: geom.DefaultTolerances().Planarity}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Extrude sweeps src through frames. The profile is re-evaluated at every
// frame's parameter, so tapering sources work unchanged.
func Extrude(src profile.Source, frames []sampler.Frame, opts ...Option) ([]SegmentBrush, error) {
	if len(frames) < 2 {
		return nil, fmt.Errorf("%w: %d frames", ErrEmptyPath, len(frames))
	}
	o := collect(opts)
	sections := make([][]Loop, len(frames))
	for i, f := range frames {
		prof := src.At(f.T)
		loops := make([]Loop, prof.Len())
		for j := range loops {
			poly := prof.Polygon(j)
			loop := make(Loop, poly.Len())
			for k := range loop {
				loop[k] = o.orientation.place(f, poly.At(k))
			}
			loops[j] = loop
		}
		sections[i] = loops
	}
	return connect(sections, o)
}

// place maps a profile point into space at frame f.
func (o Orientation) place(f sampler.Frame, v geom.Vec2) geom.Vec3 {
	switch o {
	case FixedXZ:
		return f.Position.Add(geom.Vec3{X: v.X, Z: v.Y})
	case FixedYZ:
		return f.Position.Add(geom.Vec3{Y: v.X, Z: v.Y})
	case FixedXY:
		return f.Position.Add(geom.Vec3{X: v.X, Y: v.Y})
	}
	return f.Position.Add(f.Normal.MulScalar(v.X)).Add(f.Binormal.MulScalar(v.Y))
}

// Connect joins precomputed sections: sections[i][j] is polygon j at step i.
// Each loop must be planar and convex.
func Connect(sections [][]Loop, opts ...Option) ([]SegmentBrush, error) {
	return connect(sections, collect(opts))
}

// Prism returns the single segment brush swept by base along offset.
func Prism(base Loop, offset geom.Vec3, opts ...Option) (SegmentBrush, error) {
	top := make(Loop, len(base))
	for i, p := range base {
		top[i] = p.Add(offset)
	}
	segs, err := connect([][]Loop{{base}, {top}}, collect(opts))
	if err != nil {
		return SegmentBrush{}, err
	}
	return segs[0], nil
}

func connect(sections [][]Loop, o options) ([]SegmentBrush, error) {
	if len(sections) < 2 {
		return nil, fmt.Errorf("%w: %d sections", ErrEmptyPath, len(sections))
	}
	first := sections[0]
	for i, sec := range sections {
		if len(sec) != len(first) {
			return nil, fmt.Errorf("%w: section %d has %d polygons, section 0 has %d",
				ErrProfileFrameMismatch, i, len(sec), len(first))
		}
		for j, loop := range sec {
			if len(loop) != len(first[j]) || len(loop) < 3 {
				return nil, fmt.Errorf("%w: section %d polygon %d has %d vertices, section 0 has %d",
					ErrProfileFrameMismatch, i, j, len(loop), len(first[j]))
			}
		}
	}
	if o.closed {
		sections = append(sections[:len(sections)-1:len(sections)-1], first)
	}
	if o.placement != nil {
		sections = transform(sections, *o.placement)
	}

	out := make([]SegmentBrush, 0, (len(sections)-1)*len(first))
	for i := 0; i+1 < len(sections); i++ {
		for j := range first {
			seg := segment(sections[i][j], sections[i+1][j], o.planarity)
			seg.Index = len(out)
			seg.Step = i
			seg.Polygon = j
			out = append(out, seg)
		}
	}
	return out, nil
}

func transform(sections [][]Loop, m sdf.M44) [][]Loop {
	out := make([][]Loop, len(sections))
	for i, sec := range sections {
		out[i] = make([]Loop, len(sec))
		for j, loop := range sec {
			moved := make(Loop, len(loop))
			for k, p := range loop {
				moved[k] = m.MulPosition(p)
			}
			out[i][j] = moved
		}
	}
	return out
}

// Place returns copies of segs rotated about +Z by degrees and then moved
// by origin, the same transform WithPlacement applies during a sweep.
func Place(segs []SegmentBrush, origin geom.Vec3, degrees float64) []SegmentBrush {
	m := sdf.Translate3d(origin).Mul(sdf.RotateZ(geom.Radians(degrees)))
	move := func(pts []geom.Vec3) []geom.Vec3 {
		out := make([]geom.Vec3, len(pts))
		for i, p := range pts {
			out[i] = m.MulPosition(p)
		}
		return out
	}
	out := make([]SegmentBrush, len(segs))
	for i, s := range segs {
		faces := make([]Face, len(s.Faces))
		for j, f := range s.Faces {
			faces[j] = Face{Kind: f.Kind, Loop: move(f.Loop)}
		}
		s.Faces = faces
		s.Vertices = move(s.Vertices)
		out[i] = s
	}
	return out
}
