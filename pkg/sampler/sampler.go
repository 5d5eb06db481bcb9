// Package sampler discretises a path into frames: positions with an
// orthonormal, right-handed basis that turns as little as possible from
// one sample to the next.
package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/path"
)

var (
	// ErrInvalidStepCount is returned when no usable step count is given.
	ErrInvalidStepCount = errors.New("invalid step count")
	// ErrDegenerateTangent is returned when the path stalls at a sample.
	ErrDegenerateTangent = errors.New("degenerate tangent")
)

// MaxSteps bounds the number of segments a path may be cut into.
const MaxSteps = 4096

// minClosedSteps is the fewest segments that can enclose a loop.
const minClosedSteps = 3

// Frame is one sample along a path. Tangent × Normal = Binormal.
type Frame struct {
	Position geom.Vec3
	Tangent  geom.Vec3
	Normal   geom.Vec3
	Binormal geom.Vec3
	T        float64
}

// Resolution picks the step count. A positive Steps is used as is;
// otherwise ChordTolerance bounds how far the path may stray from each
// straight segment.
type Resolution struct {
	Steps          int
	ChordTolerance float64
}

// Steps returns a fixed-count Resolution.
func Steps(n int) Resolution { return Resolution{Steps: n} }

// Tolerance returns a chord-error Resolution.
func Tolerance(d float64) Resolution { return Resolution{ChordTolerance: d} }

type options struct {
	reference geom.Vec3
	tol       geom.Tolerances
}

// Option configures Sample.
type Option func(*options)

// WithReference sets the initial "up" direction the first binormal is
// derived from. The default is +Z.
func WithReference(up geom.Vec3) Option {
	return func(o *options) { o.reference = up }
}

// WithTolerances overrides the numeric tolerances.
func WithTolerances(t geom.Tolerances) Option {
	return func(o *options) { o.tol = t }
}

// Sample evaluates p at N+1 evenly spaced parameters and attaches a
// rotation-minimising frame to each.
func Sample(p path.Path, res Resolution, opts ...Option) ([]Frame, error) {
	o := options{reference: geom.AxisZ, tol: geom.DefaultTolerances()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := path.Validate(p); err != nil {
		return nil, err
	}
	n, err := StepCount(p, res)
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pos, tan := p.Evaluate(t)
		if !geom.Finite3(pos) {
			return nil, fmt.Errorf("%w: %s position at t=%g is not finite", path.ErrInvalidPath, path.Name(p), t)
		}
		speed := tan.Length()
		if !geom.Finite(speed) || speed < o.tol.Zero {
			return nil, fmt.Errorf("%w: %s at t=%g (|tangent| = %g)", ErrDegenerateTangent, path.Name(p), t, speed)
		}
		frames = append(frames, Frame{Position: pos, Tangent: tan.MulScalar(1 / speed), T: t})
	}

	ref, err := initialReference(frames[0].Tangent, o.reference, o.tol)
	if err != nil {
		return nil, err
	}
	frames[0].orient(ref)
	for i := 1; i < len(frames); i++ {
		frames[i].orient(transport(frames[i-1], frames[i]))
	}
	return frames, nil
}

// StepCount resolves res into a segment count for p.
func StepCount(p path.Path, res Resolution) (int, error) {
	switch {
	case res.Steps < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidStepCount, res.Steps)
	case res.Steps > MaxSteps:
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrInvalidStepCount, res.Steps, MaxSteps)
	case res.Steps > 0:
		return res.Steps, nil
	case !geom.Finite(res.ChordTolerance) || res.ChordTolerance <= 0:
		return 0, fmt.Errorf("%w: need a positive step count or chord tolerance", ErrInvalidStepCount)
	}

	n := 1
	if p.Closed() {
		n = minClosedSteps
	}
	for n < MaxSteps && chordError(p, n) > res.ChordTolerance {
		n *= 2
	}
	return min(n, MaxSteps), nil
}

// chordError returns the largest distance between the path and the
// chords of an n-segment sampling, probed at the quarter points.
func chordError(p path.Path, n int) float64 {
	var worst float64
	prev, _ := p.Evaluate(0)
	for i := 1; i <= n; i++ {
		t0 := float64(i-1) / float64(n)
		t1 := float64(i) / float64(n)
		next, _ := p.Evaluate(t1)
		for _, f := range []float64{0.25, 0.5, 0.75} {
			q, _ := p.Evaluate(geom.Lerp(t0, t1, f))
			worst = math.Max(worst, segmentDistance(q, prev, next))
		}
		prev = next
	}
	return worst
}

func segmentDistance(q, a, b geom.Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return q.Sub(a).Length()
	}
	s := math.Max(0, math.Min(1, q.Sub(a).Dot(ab)/l2))
	return q.Sub(a.Add(ab.MulScalar(s))).Length()
}
