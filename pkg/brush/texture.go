package brush

import (
	"fmt"

	"github.com/chazu/curveball/pkg/extrude"
)

// DefaultTextureName is the material used when none is configured.
const DefaultTextureName = "mtrl/invisible"

// Projection selects the axis a face's texture is projected along.
type Projection int

const (
	// Dominant projects along the axis most aligned with the face normal.
	Dominant Projection = iota
	AlongX
	AlongY
	AlongZ
)

func (p Projection) String() string {
	switch p {
	case Dominant:
		return "dominant"
	case AlongX:
		return "x"
	case AlongY:
		return "y"
	case AlongZ:
		return "z"
	}
	return fmt.Sprintf("Projection(%d)", int(p))
}

// Texture holds a material name and its alignment on a face.
type Texture struct {
	Name       string
	OffsetX    float64
	OffsetY    float64
	Rotation   float64
	ScaleX     float64
	ScaleY     float64
	Projection Projection
}

// DefaultTexture returns the invisible material at half scale.
func DefaultTexture() Texture {
	return Texture{Name: DefaultTextureName, ScaleX: 0.5, ScaleY: 0.5}
}

// TextureParams assigns textures to faces: Default everywhere, replaced by
// the override for a face kind when there is one.
type TextureParams struct {
	Default   Texture
	Overrides map[extrude.FaceKind]Texture
}

// DefaultTextureParams returns params applying DefaultTexture to every face.
func DefaultTextureParams() TextureParams {
	return TextureParams{Default: DefaultTexture()}
}

// For returns the texture for a face kind.
func (p TextureParams) For(kind extrude.FaceKind) Texture {
	if t, ok := p.Overrides[kind]; ok {
		return t
	}
	if p.Default.Name == "" {
		return DefaultTexture()
	}
	return p.Default
}
