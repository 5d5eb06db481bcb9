package pipeline

import (
	"slices"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/geom"
)

// Config holds settings shared by every job in a run.
type Config struct {
	// Tolerances drive sampling, quad splitting and brush validation.
	Tolerances geom.Tolerances
	// Texture applies to jobs that do not carry their own.
	Texture brush.TextureParams
	// Metadata lines are written as header comments.
	Metadata []string
	// Reference is the preferred up vector for path frames. Zero means +Z.
	Reference geom.Vec3
	// Grouped puts each named job into its own editor group entity.
	Grouped bool
}

// DefaultConfig returns the Neverball header, the invisible texture and
// the default tolerances.
func DefaultConfig() Config {
	return Config{
		Tolerances: geom.DefaultTolerances(),
		Texture:    brush.DefaultTextureParams(),
		Metadata:   []string{"Game: Neverball", "Format: Quake3"},
		Grouped:    true,
	}
}

// Option adjusts a Config.
type Option func(*Config)

// WithTolerances replaces the numeric tolerances.
func WithTolerances(t geom.Tolerances) Option {
	return func(c *Config) { c.Tolerances = t }
}

// WithTexture sets the texture for jobs without one.
func WithTexture(t brush.TextureParams) Option {
	return func(c *Config) { c.Texture = t }
}

// WithMetadata replaces the header comment lines. No lines means no header.
func WithMetadata(lines ...string) Option {
	return func(c *Config) { c.Metadata = slices.Clone(lines) }
}

// WithReference sets the preferred up vector for path frames.
func WithReference(up geom.Vec3) Option {
	return func(c *Config) { c.Reference = up }
}

// WithGroups turns editor group entities on or off. With groups off every
// brush goes into worldspawn.
func WithGroups(on bool) Option {
	return func(c *Config) { c.Grouped = on }
}

func newConfig(opts []Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
