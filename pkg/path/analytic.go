package path

import (
	"math"

	"github.com/chazu/curveball/pkg/geom"
)

// Line runs straight from Start to End.
type Line struct {
	Start geom.Vec3
	End   geom.Vec3
}

// NewLine returns the line between two points. Coincident points are
// accepted here; sampling them reports a degenerate tangent.
func NewLine(start, end geom.Vec3) (Line, error) {
	l := Line{Start: start, End: end}
	return l, l.validate()
}

func (l Line) validate() error {
	if !geom.Finite3(l.Start) || !geom.Finite3(l.End) {
		return invalid("line endpoints must be finite")
	}
	return nil
}

func (l Line) Evaluate(t float64) (geom.Vec3, geom.Vec3) {
	return geom.Lerp3(l.Start, l.End, t), l.End.Sub(l.Start)
}

func (Line) Closed() bool { return false }
func (Line) sealed()      {}

// Revolve is a circular arc of Radius about an axis through Center,
// running from StartAngle to EndAngle (degrees). A zero Axis means +Z.
// Angle zero lies along +X for the Z axis.
type Revolve struct {
	Center     geom.Vec3
	Axis       geom.Vec3
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// NewRevolve returns a revolve about the +Z axis through center.
func NewRevolve(center geom.Vec3, radius, start, end float64) (Revolve, error) {
	r := Revolve{Center: center, Axis: geom.AxisZ, Radius: radius, StartAngle: start, EndAngle: end}
	return r, r.validate()
}

func (r Revolve) validate() error {
	if !geom.Finite3(r.Center) || !geom.Finite3(r.Axis) || !geom.AllFinite(r.Radius, r.StartAngle, r.EndAngle) {
		return invalid("revolve parameters must be finite")
	}
	if r.Radius <= 0 {
		return invalid("revolve radius %v must be positive", r.Radius)
	}
	span := math.Abs(r.EndAngle - r.StartAngle)
	if span == 0 || span > 360 {
		return invalid("revolve span %v must be within (0, 360] degrees", span)
	}
	return nil
}

// basis returns two unit vectors spanning the plane of rotation, with
// u × v along the axis.
func (r Revolve) basis() (axis, u, v geom.Vec3) {
	axis = r.Axis
	if axis.Length() == 0 {
		axis = geom.AxisZ
	}
	axis = axis.Normalize()
	ref := geom.AxisX
	if math.Abs(axis.Dot(ref)) > 0.9 {
		ref = geom.AxisY
	}
	u = ref.Sub(axis.MulScalar(axis.Dot(ref))).Normalize()
	v = axis.Cross(u)
	return axis, u, v
}

func (r Revolve) Evaluate(t float64) (geom.Vec3, geom.Vec3) {
	_, u, v := r.basis()
	a0, a1 := geom.Radians(r.StartAngle), geom.Radians(r.EndAngle)
	theta := geom.Lerp(a0, a1, t)
	c, s := math.Cos(theta), math.Sin(theta)
	pos := r.Center.Add(u.MulScalar(r.Radius * c)).Add(v.MulScalar(r.Radius * s))
	speed := r.Radius * (a1 - a0)
	tan := u.MulScalar(-s * speed).Add(v.MulScalar(c * speed))
	return pos, tan
}

// Closed reports a full turn.
func (r Revolve) Closed() bool {
	return math.Abs(math.Abs(r.EndAngle-r.StartAngle)-360) < 1e-9
}

func (Revolve) sealed() {}

// Sinusoid is z = Amplitude·sin(2π(x+Phase)/Period) in the XZ plane for x
// from Start to End. Period and Phase are in map units.
type Sinusoid struct {
	Amplitude float64
	Period    float64
	Phase     float64
	Start     float64
	End       float64
}

// NewSinusoid validates and returns a Sinusoid.
func NewSinusoid(amplitude, period, phase, start, end float64) (Sinusoid, error) {
	s := Sinusoid{Amplitude: amplitude, Period: period, Phase: phase, Start: start, End: end}
	return s, s.validate()
}

func (s Sinusoid) validate() error {
	if !geom.AllFinite(s.Amplitude, s.Period, s.Phase, s.Start, s.End) {
		return invalid("sinusoid parameters must be finite")
	}
	if s.Period <= 0 {
		return invalid("sinusoid period %v must be positive", s.Period)
	}
	return nil
}

func (s Sinusoid) Evaluate(t float64) (geom.Vec3, geom.Vec3) {
	x := geom.Lerp(s.Start, s.End, t)
	omega := 2 * math.Pi / s.Period
	dx := s.End - s.Start
	pos := geom.Vec3{X: x, Z: s.Amplitude * math.Sin(omega*(x+s.Phase))}
	tan := geom.Vec3{X: dx, Z: dx * s.Amplitude * omega * math.Cos(omega*(x+s.Phase))}
	return pos, tan
}

func (Sinusoid) Closed() bool { return false }
func (Sinusoid) sealed()      {}

// Serpentine is a run of Count S-bends in the XZ plane, each built from
// two tangent circular arcs. Bends alternate between rising by Height and
// falling back, covering Length along X in total.
type Serpentine struct {
	Length float64
	Height float64
	Count  int
}

// NewSerpentine validates and returns a Serpentine.
func NewSerpentine(length, height float64, count int) (Serpentine, error) {
	s := Serpentine{Length: length, Height: height, Count: count}
	return s, s.validate()
}

func (s Serpentine) validate() error {
	if !geom.AllFinite(s.Length, s.Height) {
		return invalid("serpentine parameters must be finite")
	}
	if s.Count < 1 || s.Count > 4096 {
		return invalid("serpentine count %d must be within [1, 4096]", s.Count)
	}
	if s.Height <= 0 {
		return invalid("serpentine height %v must be positive", s.Height)
	}
	if s.Height > s.Length/float64(s.Count) {
		return invalid("serpentine bend height %v exceeds its run %v", s.Height, s.Length/float64(s.Count))
	}
	return nil
}

func (s Serpentine) Evaluate(t float64) (geom.Vec3, geom.Vec3) {
	n := float64(s.Count)
	run := s.Length / n
	u := t * n
	k := math.Floor(u)
	if k > n-1 {
		k = n - 1
	}
	if k < 0 {
		k = 0
	}
	lp, lt := bend(run, s.Height, u-k)
	base, dir := 0.0, 1.0
	if int(k)%2 == 1 {
		base, dir = s.Height, -1.0
	}
	pos := geom.Vec3{X: k*run + lp.X, Z: base + dir*lp.Z}
	tan := geom.Vec3{X: n * lt.X, Z: n * dir * lt.Z}
	return pos, tan
}

// bend evaluates one S-bend from (0, 0) to (x, z) at s in [0, 1]. Both
// arcs share the radius r = (xm² + zm²) / 2zm for the half extents xm, zm
// and meet tangentially at the midpoint.
func bend(x, z, s float64) (pos, tan geom.Vec3) {
	xm, zm := x/2, z/2
	r := (zm*zm + xm*xm) / (2 * zm)
	alpha := math.Asin(xm / r)
	if s < 0.5 {
		theta := -math.Pi/2 + alpha*2*s
		pos = geom.Vec3{X: r * math.Cos(theta), Z: r*math.Sin(theta) + r}
		speed := 2 * alpha * r
		tan = geom.Vec3{X: -math.Sin(theta) * speed, Z: math.Cos(theta) * speed}
		return pos, tan
	}
	theta := math.Pi/2 + alpha - alpha*2*(s-0.5)
	pos = geom.Vec3{X: r*math.Cos(theta) + x, Z: r*math.Sin(theta) - r + z}
	speed := 2 * alpha * r
	tan = geom.Vec3{X: math.Sin(theta) * speed, Z: -math.Cos(theta) * speed}
	return pos, tan
}

func (Serpentine) Closed() bool { return false }
func (Serpentine) sealed()      {}
