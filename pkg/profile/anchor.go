package profile

import (
	"fmt"
	"math"

	"github.com/chazu/curveball/pkg/geom"
)

// Anchor picks which of the nine bounding-box reference points of a
// rectangle or parallelogram sits on the profile origin.
type Anchor int

const (
	Center Anchor = iota
	TopLeft
	TopCenter
	TopRight
	CenterLeft
	CenterRight
	BottomLeft
	BottomCenter
	BottomRight
)

var anchorNames = [...]string{
	Center:       "center",
	TopLeft:      "top-left",
	TopCenter:    "top-center",
	TopRight:     "top-right",
	CenterLeft:   "center-left",
	CenterRight:  "center-right",
	BottomLeft:   "bottom-left",
	BottomCenter: "bottom-center",
	BottomRight:  "bottom-right",
}

func (a Anchor) String() string {
	if a >= 0 && int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// ParseAnchor maps an anchor name back to its Anchor.
func ParseAnchor(s string) (Anchor, error) {
	for a, name := range anchorNames {
		if name == s {
			return Anchor(a), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown anchor %q", ErrInvalidProfile, s)
}

// fractions returns the anchor position as fractions of the bounding box.
func (a Anchor) fractions() (fx, fy float64) {
	switch a {
	case TopLeft:
		return 0, 1
	case TopCenter:
		return 0.5, 1
	case TopRight:
		return 1, 1
	case CenterLeft:
		return 0, 0.5
	case CenterRight:
		return 1, 0.5
	case BottomLeft:
		return 0, 0
	case BottomCenter:
		return 0.5, 0
	case BottomRight:
		return 1, 0
	}
	return 0.5, 0.5
}

// anchored moves pts so the anchor point of their bounding box lands on
// the origin and returns the resulting single-polygon profile.
func anchored(pts []geom.Vec2, a Anchor) (Profile, error) {
	if a < 0 || int(a) >= len(anchorNames) {
		return Profile{}, fmt.Errorf("%w: unknown anchor %d", ErrInvalidProfile, int(a))
	}
	lo := geom.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := geom.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range pts {
		lo = geom.Vec2{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = geom.Vec2{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	fx, fy := a.fractions()
	shift := geom.Vec2{X: -geom.Lerp(lo.X, hi.X, fx), Y: -geom.Lerp(lo.Y, hi.Y, fy)}
	out := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		out[i] = p.Add(shift)
	}
	return New(out)
}
