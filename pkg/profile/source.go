package profile

import (
	"fmt"

	"github.com/chazu/curveball/pkg/geom"
)

// Source yields the profile to use at path parameter t in [0, 1].
// A plain Profile is a constant Source.
type Source interface {
	At(t float64) Profile
}

var (
	_ Source = Profile{}
	_ Source = Taper{}
)

// Taper scales and twists a base profile linearly along the path.
// Twist angles are in degrees.
type Taper struct {
	Base       Profile
	StartScale float64
	EndScale   float64
	StartTwist float64
	EndTwist   float64
}

// NewTaper validates the scales and returns a Taper.
func NewTaper(base Profile, startScale, endScale, startTwist, endTwist float64) (Taper, error) {
	if base.Len() == 0 {
		return Taper{}, fmt.Errorf("%w: taper has no base profile", ErrInvalidProfile)
	}
	if err := checkPositive("start scale", startScale); err != nil {
		return Taper{}, err
	}
	if err := checkPositive("end scale", endScale); err != nil {
		return Taper{}, err
	}
	if !geom.AllFinite(startTwist, endTwist) {
		return Taper{}, fmt.Errorf("%w: twist must be finite", ErrInvalidProfile)
	}
	return Taper{
		Base:       base,
		StartScale: startScale,
		EndScale:   endScale,
		StartTwist: startTwist,
		EndTwist:   endTwist,
	}, nil
}

// At returns the base profile scaled and twisted for t.
func (tp Taper) At(t float64) Profile {
	scale := geom.Lerp(tp.StartScale, tp.EndScale, t)
	twist := geom.Radians(geom.Lerp(tp.StartTwist, tp.EndTwist, t))
	return tp.Base.Transform(scale, twist)
}
