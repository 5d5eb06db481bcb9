package profile

import (
	"fmt"
	"math"

	"github.com/chazu/curveball/pkg/geom"
)

// Kind selects a profile builder.
type Kind int

const (
	Circle Kind = iota
	CircleSector
	Rectangle
	Parallelogram
	Annulus
	Polygons
)

var kindNames = [...]string{
	Circle:        "circle",
	CircleSector:  "circle-sector",
	Rectangle:     "rectangle",
	Parallelogram: "parallelogram",
	Annulus:       "annulus",
	Polygons:      "polygons",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidProfile, s)
}

// Params carries the sizing for every kind. Only the fields a kind reads
// are consulted. Angles are in degrees.
type Params struct {
	Sides int

	Radius      float64 // Circle, CircleSector
	InnerRadius float64 // Annulus
	OuterRadius float64 // Annulus

	// StartAngle and EndAngle bound a sector or a partial annulus. An
	// annulus with equal angles is a full ring.
	StartAngle float64
	EndAngle   float64

	// Rectangle: Width x Height. Parallelogram: the base edge runs from
	// the origin to (Width, Height) and the side edge to (OffsetX, OffsetY).
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
	Anchor  Anchor

	Loops [][]geom.Vec2 // Polygons
}

// Build dispatches to the builder for kind.
func Build(kind Kind, p Params) (Profile, error) {
	switch kind {
	case Circle:
		return NewCircle(p.Sides, p.Radius)
	case CircleSector:
		return NewSector(p.Sides, p.Radius, p.StartAngle, p.EndAngle)
	case Rectangle:
		return NewRectangle(p.Width, p.Height, p.Anchor)
	case Parallelogram:
		return NewParallelogram(p.Width, p.Height, p.OffsetX, p.OffsetY, p.Anchor)
	case Annulus:
		return NewAnnulus(p.Sides, p.InnerRadius, p.OuterRadius, p.StartAngle, p.EndAngle)
	case Polygons:
		return New(p.Loops...)
	}
	return Profile{}, fmt.Errorf("%w: unknown kind %v", ErrInvalidProfile, kind)
}

func checkSides(n int) error {
	if n < 3 {
		return fmt.Errorf("%w: %d sides, need at least 3", ErrInvalidProfile, n)
	}
	if n > MaxSides {
		return fmt.Errorf("%w: %d sides, at most %d allowed", ErrInvalidProfile, n, MaxSides)
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if !geom.Finite(v) || v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidProfile, name, v)
	}
	return nil
}

// NewCircle returns a regular polygon with the given number of sides
// inscribed in a circle of radius r. The first vertex lies on +X.
func NewCircle(sides int, r float64) (Profile, error) {
	if err := checkSides(sides); err != nil {
		return Profile{}, err
	}
	if err := checkPositive("radius", r); err != nil {
		return Profile{}, err
	}
	pts := make([]geom.Vec2, sides)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(sides)
		pts[i] = geom.Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return New(pts)
}

// NewSector returns the pie slice of radius r between two angles, with
// the arc split into the given number of sides. Slices of 180 degrees or
// more are cut into narrower convex wedges that share the centre.
func NewSector(sides int, r, start, end float64) (Profile, error) {
	if err := checkSides(sides); err != nil {
		return Profile{}, err
	}
	if err := checkPositive("radius", r); err != nil {
		return Profile{}, err
	}
	if !geom.AllFinite(start, end) {
		return Profile{}, fmt.Errorf("%w: angles must be finite", ErrInvalidProfile)
	}
	span := end - start
	if span == 0 || math.Abs(span) > 360 {
		return Profile{}, fmt.Errorf("%w: sector span %v must be within (0, 360] degrees", ErrInvalidProfile, math.Abs(span))
	}
	step := math.Abs(span) / float64(sides)
	// Each wedge stays strictly under a half turn.
	perWedge := int(math.Ceil(180/step)) - 1
	if perWedge < 1 {
		perWedge = 1
	}
	arc := func(i int) geom.Vec2 {
		theta := geom.Radians(start + span*float64(i)/float64(sides))
		return geom.Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	var loops [][]geom.Vec2
	for i := 0; i < sides; i += perWedge {
		last := min(i+perWedge, sides)
		loop := []geom.Vec2{{}}
		for j := i; j <= last; j++ {
			loop = append(loop, arc(j))
		}
		loops = append(loops, loop)
	}
	return New(loops...)
}

// NewRectangle returns a width x height rectangle positioned so that the
// anchor point sits on the origin.
func NewRectangle(w, h float64, anchor Anchor) (Profile, error) {
	if err := checkPositive("width", w); err != nil {
		return Profile{}, err
	}
	if err := checkPositive("height", h); err != nil {
		return Profile{}, err
	}
	pts := []geom.Vec2{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	return anchored(pts, anchor)
}

// NewParallelogram returns the parallelogram spanned by the base edge
// (w, h) and the side edge (ox, oy), anchored on its bounding box.
func NewParallelogram(w, h, ox, oy float64, anchor Anchor) (Profile, error) {
	if !geom.AllFinite(w, h, ox, oy) {
		return Profile{}, fmt.Errorf("%w: parallelogram edges must be finite", ErrInvalidProfile)
	}
	if math.Hypot(w, h) == 0 || math.Hypot(ox, oy) == 0 {
		return Profile{}, fmt.Errorf("%w: parallelogram edges must have positive length", ErrInvalidProfile)
	}
	pts := []geom.Vec2{{}, {X: w, Y: h}, {X: w + ox, Y: h + oy}, {X: ox, Y: oy}}
	return anchored(pts, anchor)
}

// NewAnnulus returns a ring between two radii as a list of trapezoidal
// wedges. Equal start and end angles produce a full ring.
func NewAnnulus(sides int, inner, outer, start, end float64) (Profile, error) {
	if err := checkSides(sides); err != nil {
		return Profile{}, err
	}
	if err := checkPositive("inner radius", inner); err != nil {
		return Profile{}, err
	}
	if err := checkPositive("outer radius", outer); err != nil {
		return Profile{}, err
	}
	if inner >= outer {
		return Profile{}, fmt.Errorf("%w: inner radius %v must be smaller than outer radius %v", ErrInvalidProfile, inner, outer)
	}
	if !geom.AllFinite(start, end) {
		return Profile{}, fmt.Errorf("%w: angles must be finite", ErrInvalidProfile)
	}
	if start == end {
		end = start + 360
	}
	if math.Abs(end-start) > 360 {
		return Profile{}, fmt.Errorf("%w: annulus span exceeds 360 degrees", ErrInvalidProfile)
	}
	loops := make([][]geom.Vec2, sides)
	for i := range loops {
		t0 := geom.Radians(geom.Lerp(start, end, float64(i)/float64(sides)))
		t1 := geom.Radians(geom.Lerp(start, end, float64(i+1)/float64(sides)))
		c0, s0 := math.Cos(t0), math.Sin(t0)
		c1, s1 := math.Cos(t1), math.Sin(t1)
		loops[i] = []geom.Vec2{
			{X: inner * c0, Y: inner * s0},
			{X: outer * c0, Y: outer * s0},
			{X: outer * c1, Y: outer * s1},
			{X: inner * c1, Y: inner * s1},
		}
	}
	return New(loops...)
}
