package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/curve"
	"github.com/chazu/curveball/pkg/extrude"
	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/path"
	"github.com/chazu/curveball/pkg/pipeline"
	"github.com/chazu/curveball/pkg/profile"
	"github.com/chazu/curveball/pkg/sampler"
)

// DefaultSteps is the step count of an extrude call that names neither
// :steps nor :tolerance.
const DefaultSteps = 24

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites curve script source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot clash with user variables.
//
//  2. Kebab-case identifiers become underscore identifiers
//     (curve-classic -> curve_classic). zygomys reads a hyphen as the
//     subtraction operator.
//
//  3. ; line comments become // comments.
//
// String literals are left alone.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Double-quoted strings are copied through, escapes included.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Raw strings have no escapes.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// ;; and ; both start a comment that runs to the end of the line.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// := is assignment.
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// :inner-radius0 -> "__kw_inner-radius0", hyphens kept.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// A hyphen between identifier characters joins words; anywhere
		// else it is a minus sign.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values between builtins
// ---------------------------------------------------------------------------

type sexpVec2 struct {
	vec geom.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpProfile wraps a profile source: a fixed profile or a taper.
type sexpProfile struct {
	src  profile.Source
	kind string
}

func (p *sexpProfile) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", p.kind)
}
func (p *sexpProfile) Type() *zygo.RegisteredType { return nil }

type sexpPath struct {
	path path.Path
}

func (p *sexpPath) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", path.Name(p.path))
}
func (p *sexpPath) Type() *zygo.RegisteredType { return nil }

type sexpHeights struct {
	h curve.Heights
}

func (h *sexpHeights) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(heights :inner-top %g :inner-bottom %g :outer-top %g :outer-bottom %g)",
		h.h.InnerTop, h.h.InnerBottom, h.h.OuterTop, h.h.OuterBottom)
}
func (h *sexpHeights) Type() *zygo.RegisteredType { return nil }

type sexpTexture struct {
	tex brush.Texture
}

func (t *sexpTexture) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(texture %q)", t.tex.Name)
}
func (t *sexpTexture) Type() *zygo.RegisteredType { return nil }

type sexpTextures struct {
	params brush.TextureParams
}

func (t *sexpTextures) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(textures %q)", t.params.Default.Name)
}
func (t *sexpTextures) Type() *zygo.RegisteredType { return nil }

// sexpJob refers to a job queued by extrude or a generator builtin.
type sexpJob struct {
	index int
	label string
}

func (j *sexpJob) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(job %q)", j.label)
}
func (j *sexpJob) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a call's arguments split into keyword and positional parts.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword with no value.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// unknown returns the keywords not in known, sorted.
func (pa kwArgs) unknown(known []string) []string {
	var out []string
	for k := range pa.kw {
		found := false
		for _, name := range known {
			if k == name {
				found = true
				break
			}
		}
		if !found {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (pa kwArgs) floatKW(key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func (pa kwArgs) intKW(key string, dst *int) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func (pa kwArgs) boolKW(key string, dst *bool) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func (pa kwArgs) stringKW(key string, dst *string) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	s, err := toKeywordString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = s
	return nil
}

func (pa kwArgs) vec3KW(key string, dst *geom.Vec3) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = vec
	return nil
}

func (pa kwArgs) heightsKW(key string, dst *curve.Heights) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	h, ok := v.(*sexpHeights)
	if !ok {
		return fmt.Errorf("%s: expected heights, got %T (%s)", key, v, v.SexpString(nil))
	}
	*dst = h.h
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt accepts integers and floats with no fractional part.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) && math.Abs(v.Val) <= math.MaxInt32 {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts a preprocessed keyword (:z) or a plain string ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toVec2(s zygo.Sexp) (geom.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return geom.Vec2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toProfile(s zygo.Sexp) (*sexpProfile, error) {
	if p, ok := s.(*sexpProfile); ok {
		return p, nil
	}
	return nil, fmt.Errorf("expected profile, got %T (%s)", s, s.SexpString(nil))
}

func toPath(s zygo.Sexp) (path.Path, error) {
	if p, ok := s.(*sexpPath); ok {
		return p.path, nil
	}
	return nil, fmt.Errorf("expected path, got %T (%s)", s, s.SexpString(nil))
}

func toTexture(s zygo.Sexp) (brush.Texture, error) {
	if t, ok := s.(*sexpTexture); ok {
		return t.tex, nil
	}
	return brush.Texture{}, fmt.Errorf("expected texture, got %T (%s)", s, s.SexpString(nil))
}

// toTextureParams accepts a single texture, applied to every face, or a
// textures set.
func toTextureParams(s zygo.Sexp) (brush.TextureParams, error) {
	switch v := s.(type) {
	case *sexpTexture:
		return brush.TextureParams{Default: v.tex}, nil
	case *sexpTextures:
		return v.params, nil
	}
	return brush.TextureParams{}, fmt.Errorf("expected texture or textures, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// flatten expands list and array arguments in place, so (bezier a b c) and
// (bezier [a b c]) read the same.
func flatten(args []zygo.Sexp) ([]zygo.Sexp, error) {
	var out []zygo.Sexp
	for _, a := range args {
		switch a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// session collects what one evaluation produces.
type session struct {
	jobs     []pipeline.Job
	warnings []EvalWarning
}

type builtinFunc func(s *session, pa kwArgs) (zygo.Sexp, error)

// placement keywords shared by extrude and every generator.
var placementKeys = []string{"name", "at", "rotate", "texture"}

// register installs fn under name, with hyphens turned into underscores to
// match preprocessSource. Errors are prefixed with the script-facing name
// and keywords outside known produce warnings.
func (s *session) register(env *zygo.Zlisp, name string, known []string, fn builtinFunc) {
	env.AddFunction(strings.ReplaceAll(name, "-", "_"), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		for _, k := range pa.unknown(known) {
			s.warnings = append(s.warnings, EvalWarning{
				Job:     -1,
				Message: fmt.Sprintf("%s: unknown keyword :%s", name, k),
			})
		}
		out, err := fn(s, pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return out, nil
	})
}

// queue applies the placement keywords to job and appends it.
func (s *session) queue(job pipeline.Job, pa kwArgs) (zygo.Sexp, error) {
	err := errors.Join(
		pa.stringKW("name", &job.Name),
		pa.vec3KW("at", &job.Origin),
		pa.floatKW("rotate", &job.Rotation),
	)
	if err != nil {
		return zygo.SexpNull, err
	}
	if v, ok := pa.kw["texture"]; ok {
		tex, err := toTextureParams(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("texture: %w", err)
		}
		job.Texture = &tex
	}
	if err := job.Validate(); err != nil {
		return zygo.SexpNull, err
	}
	idx := len(s.jobs)
	s.jobs = append(s.jobs, job)
	return &sexpJob{index: idx, label: job.Label(idx)}, nil
}

// registerBuiltins installs the curve script builtins. Source must go
// through preprocessSource first so keywords are recognisable.
func registerBuiltins(env *zygo.Zlisp, s *session) {
	registerValues(env, s)
	registerProfiles(env, s)
	registerPaths(env, s)
	registerGenerators(env, s)

	// (extrude profile path :steps 24 :orientation :follow :name "rail")
	s.register(env, "extrude", append([]string{"steps", "tolerance", "orientation"}, placementKeys...),
		func(s *session, pa kwArgs) (zygo.Sexp, error) {
			if len(pa.positional) != 2 {
				return zygo.SexpNull, fmt.Errorf("expected a profile and a path, got %d arguments", len(pa.positional))
			}
			prof, err := toProfile(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, err
			}
			p, err := toPath(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, err
			}
			res := sampler.Steps(DefaultSteps)
			_, hasSteps := pa.kw["steps"]
			_, hasTol := pa.kw["tolerance"]
			switch {
			case hasSteps && hasTol:
				return zygo.SexpNull, fmt.Errorf("give :steps or :tolerance, not both")
			case hasTol:
				res = sampler.Resolution{}
				if err := pa.floatKW("tolerance", &res.ChordTolerance); err != nil {
					return zygo.SexpNull, err
				}
			default:
				if err := pa.intKW("steps", &res.Steps); err != nil {
					return zygo.SexpNull, err
				}
			}
			job := pipeline.Sweep("", prof.src, p, res)
			if v, ok := pa.kw["orientation"]; ok {
				name, err := toKeywordString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("orientation: %w", err)
				}
				if job.Orientation, err = extrude.ParseOrientation(name); err != nil {
					return zygo.SexpNull, err
				}
			}
			return s.queue(job, pa)
		})
}

func registerValues(env *zygo.Zlisp, s *session) {
	// (vec2 x y)
	s.register(env, "vec2", nil, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("expected 2 numbers, got %d arguments", len(pa.positional))
		}
		x, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		y, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec2{vec: geom.Vec2{X: x, Y: y}}, nil
	})

	// (vec3 x y z)
	s.register(env, "vec3", nil, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("expected 3 numbers, got %d arguments", len(pa.positional))
		}
		var c [3]float64
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, err
			}
			c[i] = f
		}
		return &sexpVec3{vec: geom.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// (texture "mtrl/stone" :scale 1 :rotation 90 :projection :z)
	s.register(env, "texture", []string{"scale", "scale-x", "scale-y", "offset-x", "offset-y", "rotation", "projection"},
		func(s *session, pa kwArgs) (zygo.Sexp, error) {
			tex := brush.DefaultTexture()
			if len(pa.positional) > 0 {
				name, err := toString(pa.positional[0])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("name: %w", err)
				}
				tex.Name = name
			}
			var scale float64
			if _, ok := pa.kw["scale"]; ok {
				if err := pa.floatKW("scale", &scale); err != nil {
					return zygo.SexpNull, err
				}
				tex.ScaleX, tex.ScaleY = scale, scale
			}
			err := errors.Join(
				pa.floatKW("scale-x", &tex.ScaleX),
				pa.floatKW("scale-y", &tex.ScaleY),
				pa.floatKW("offset-x", &tex.OffsetX),
				pa.floatKW("offset-y", &tex.OffsetY),
				pa.floatKW("rotation", &tex.Rotation),
			)
			if err != nil {
				return zygo.SexpNull, err
			}
			if v, ok := pa.kw["projection"]; ok {
				name, err := toKeywordString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("projection: %w", err)
				}
				if tex.Projection, err = parseProjection(name); err != nil {
					return zygo.SexpNull, err
				}
			}
			return &sexpTexture{tex: tex}, nil
		})

	// (textures (texture "a") :start-cap (texture "b") :side (texture "c"))
	s.register(env, "textures", []string{"start-cap", "end-cap", "side"},
		func(s *session, pa kwArgs) (zygo.Sexp, error) {
			params := brush.DefaultTextureParams()
			if len(pa.positional) > 0 {
				tex, err := toTexture(pa.positional[0])
				if err != nil {
					return zygo.SexpNull, err
				}
				params.Default = tex
			}
			for _, kind := range []extrude.FaceKind{extrude.StartCap, extrude.EndCap, extrude.Side} {
				v, ok := pa.kw[kind.String()]
				if !ok {
					continue
				}
				tex, err := toTexture(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
				}
				if params.Overrides == nil {
					params.Overrides = make(map[extrude.FaceKind]brush.Texture)
				}
				params.Overrides[kind] = tex
			}
			return &sexpTextures{params: params}, nil
		})

	// (heights :inner-bottom 0 :outer-bottom 0 :thickness 8)
	s.register(env, "heights", []string{"inner-top", "inner-bottom", "outer-top", "outer-bottom", "thickness"},
		func(s *session, pa kwArgs) (zygo.Sexp, error) {
			var h curve.Heights
			err := errors.Join(
				pa.floatKW("inner-bottom", &h.InnerBottom),
				pa.floatKW("outer-bottom", &h.OuterBottom),
			)
			if err != nil {
				return zygo.SexpNull, err
			}
			if _, ok := pa.kw["thickness"]; ok {
				var t float64
				if err := pa.floatKW("thickness", &t); err != nil {
					return zygo.SexpNull, err
				}
				h = curve.ConstantThickness(h.InnerBottom, h.OuterBottom, t)
			}
			err = errors.Join(
				pa.floatKW("inner-top", &h.InnerTop),
				pa.floatKW("outer-top", &h.OuterTop),
			)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpHeights{h: h}, nil
		})
}

func parseProjection(name string) (brush.Projection, error) {
	for _, p := range []brush.Projection{brush.Dominant, brush.AlongX, brush.AlongY, brush.AlongZ} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown projection %q, expected dominant, x, y or z", name)
}

func registerProfiles(env *zygo.Zlisp, s *session) {
	profileFn := func(kind profile.Kind, defaults profile.Params) builtinFunc {
		return func(s *session, pa kwArgs) (zygo.Sexp, error) {
			p := defaults
			err := errors.Join(
				pa.intKW("sides", &p.Sides),
				pa.floatKW("radius", &p.Radius),
				pa.floatKW("inner", &p.InnerRadius),
				pa.floatKW("outer", &p.OuterRadius),
				pa.floatKW("start", &p.StartAngle),
				pa.floatKW("end", &p.EndAngle),
				pa.floatKW("width", &p.Width),
				pa.floatKW("height", &p.Height),
				pa.floatKW("offset-x", &p.OffsetX),
				pa.floatKW("offset-y", &p.OffsetY),
			)
			if err != nil {
				return zygo.SexpNull, err
			}
			if v, ok := pa.kw["anchor"]; ok {
				name, err := toKeywordString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("anchor: %w", err)
				}
				if p.Anchor, err = profile.ParseAnchor(name); err != nil {
					return zygo.SexpNull, err
				}
			}
			prof, err := profile.Build(kind, p)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpProfile{src: prof, kind: kind.String()}, nil
		}
	}

	// (circle :sides 8 :radius 16)
	s.register(env, "circle", []string{"sides", "radius"},
		profileFn(profile.Circle, profile.Params{Sides: 8, Radius: 16}))
	// (sector :sides 8 :radius 16 :start 0 :end 90)
	s.register(env, "sector", []string{"sides", "radius", "start", "end"},
		profileFn(profile.CircleSector, profile.Params{Sides: 8, Radius: 16, EndAngle: 90}))
	// (rectangle :width 32 :height 8 :anchor :bottom-center)
	s.register(env, "rectangle", []string{"width", "height", "anchor"},
		profileFn(profile.Rectangle, profile.Params{Width: 32, Height: 8}))
	// (parallelogram :width 32 :height 0 :offset-x 8 :offset-y 8)
	s.register(env, "parallelogram", []string{"width", "height", "offset-x", "offset-y", "anchor"},
		profileFn(profile.Parallelogram, profile.Params{Width: 32, OffsetX: 8, OffsetY: 8}))
	// (annulus :sides 16 :inner 32 :outer 64 :start 0 :end 180)
	s.register(env, "annulus", []string{"sides", "inner", "outer", "start", "end"},
		profileFn(profile.Annulus, profile.Params{Sides: 16, InnerRadius: 32, OuterRadius: 64}))

	// (polygon (vec2 0 0) (vec2 8 0) (vec2 0 8)), one convex loop per call
	s.register(env, "polygon", nil, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		args, err := flatten(pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		loop := make([]geom.Vec2, len(args))
		for i, a := range args {
			if loop[i], err = toVec2(a); err != nil {
				return zygo.SexpNull, fmt.Errorf("vertex %d: %w", i, err)
			}
		}
		prof, err := profile.New(loop)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpProfile{src: prof, kind: profile.Polygons.String()}, nil
	})

	// (compound p1 p2 ...) merges the polygons of fixed profiles.
	s.register(env, "compound", nil, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		args, err := flatten(pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		var loops [][]geom.Vec2
		for i, a := range args {
			sp, err := toProfile(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("argument %d: %w", i, err)
			}
			prof, ok := sp.src.(profile.Profile)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("argument %d: a %s cannot be combined", i, sp.kind)
			}
			for _, poly := range prof.Polygons() {
				loops = append(loops, poly.Vertices())
			}
		}
		prof, err := profile.New(loops...)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpProfile{src: prof, kind: profile.Polygons.String()}, nil
	})

	// (taper (circle) :scale-start 1 :scale-end 0.5 :twist-end 90)
	s.register(env, "taper", []string{"scale-start", "scale-end", "twist-start", "twist-end"},
		func(s *session, pa kwArgs) (zygo.Sexp, error) {
			if len(pa.positional) != 1 {
				return zygo.SexpNull, fmt.Errorf("expected one base profile, got %d arguments", len(pa.positional))
			}
			sp, err := toProfile(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, err
			}
			base, ok := sp.src.(profile.Profile)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("cannot taper a %s", sp.kind)
			}
			scaleStart, scaleEnd := 1.0, 1.0
			var twistStart, twistEnd float64
			err = errors.Join(
				pa.floatKW("scale-start", &scaleStart),
				pa.floatKW("scale-end", &scaleEnd),
				pa.floatKW("twist-start", &twistStart),
				pa.floatKW("twist-end", &twistEnd),
			)
			if err != nil {
				return zygo.SexpNull, err
			}
			tp, err := profile.NewTaper(base, scaleStart, scaleEnd, twistStart, twistEnd)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpProfile{src: tp, kind: "taper"}, nil
		})
}

func registerPaths(env *zygo.Zlisp, s *session) {
	wrap := func(p path.Path, err error) (zygo.Sexp, error) {
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPath{path: p}, nil
	}

	// (line (vec3 0 0 0) (vec3 256 0 0)) or (line :from a :to b)
	s.register(env, "line", []string{"from", "to"}, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		var from, to geom.Vec3
		if len(pa.positional) == 2 {
			var err error
			if from, err = toVec3(pa.positional[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("from: %w", err)
			}
			if to, err = toVec3(pa.positional[1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("to: %w", err)
			}
		} else if len(pa.positional) != 0 {
			return zygo.SexpNull, fmt.Errorf("expected two points, got %d arguments", len(pa.positional))
		}
		if err := errors.Join(pa.vec3KW("from", &from), pa.vec3KW("to", &to)); err != nil {
			return zygo.SexpNull, err
		}
		return wrap(path.NewLine(from, to))
	})

	// (revolve :center (vec3 0 0 0) :radius 128 :start 0 :end 360)
	s.register(env, "revolve", []string{"center", "radius", "start", "end"}, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		var center geom.Vec3
		radius, start, end := 128.0, 0.0, 360.0
		err := errors.Join(
			pa.vec3KW("center", &center),
			pa.floatKW("radius", &radius),
			pa.floatKW("start", &start),
			pa.floatKW("end", &end),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(path.NewRevolve(center, radius, start, end))
	})

	// (sinusoid :amplitude 32 :period 256 :phase 0 :start 0 :end 256)
	s.register(env, "sinusoid", []string{"amplitude", "period", "phase", "start", "end"}, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		amplitude, period, phase, start, end := 32.0, 256.0, 0.0, 0.0, 256.0
		err := errors.Join(
			pa.floatKW("amplitude", &amplitude),
			pa.floatKW("period", &period),
			pa.floatKW("phase", &phase),
			pa.floatKW("start", &start),
			pa.floatKW("end", &end),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(path.NewSinusoid(amplitude, period, phase, start, end))
	})

	// (bezier p0 p1 p2 ...)
	s.register(env, "bezier", nil, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		args, err := flatten(pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		pts := make([]geom.Vec3, len(args))
		for i, a := range args {
			if pts[i], err = toVec3(a); err != nil {
				return zygo.SexpNull, fmt.Errorf("point %d: %w", i, err)
			}
		}
		return wrap(path.NewBezier(pts...))
	})

	// (catenary :span 128 :height 0 :length 132)
	s.register(env, "catenary", []string{"span", "height", "length"}, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		span, height, length := 128.0, 0.0, 132.0
		err := errors.Join(
			pa.floatKW("span", &span),
			pa.floatKW("height", &height),
			pa.floatKW("length", &length),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(path.NewCatenary(span, height, length))
	})

	// (serpentine :length 128 :height 64 :count 1)
	s.register(env, "serpentine", []string{"length", "height", "count"}, func(s *session, pa kwArgs) (zygo.Sexp, error) {
		length, height, count := 128.0, 64.0, 1
		err := errors.Join(
			pa.floatKW("length", &length),
			pa.floatKW("height", &height),
			pa.intKW("count", &count),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(path.NewSerpentine(length, height, count))
	})
}

func registerGenerators(env *zygo.Zlisp, s *session) {
	ring := []string{"n", "inner0", "outer0", "inner1", "outer1", "start", "end"}
	keys := func(extra ...string) []string {
		out := append([]string{}, extra...)
		return append(out, placementKeys...)
	}

	// (curve-classic :n 24 :inner0 32 :outer0 64 :end 90 :thickness 8)
	s.register(env, "curve-classic", keys(append(ring, "thickness")...), func(s *session, pa kwArgs) (zygo.Sexp, error) {
		g := curve.DefaultCurveClassic()
		err := errors.Join(
			pa.intKW("n", &g.N),
			pa.floatKW("inner0", &g.InnerRadius0),
			pa.floatKW("outer0", &g.OuterRadius0),
			pa.floatKW("inner1", &g.InnerRadius1),
			pa.floatKW("outer1", &g.OuterRadius1),
			pa.floatKW("start", &g.StartAngle),
			pa.floatKW("end", &g.EndAngle),
			pa.floatKW("thickness", &g.Thickness),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.queue(pipeline.Generate("", g), pa)
	})

	// (curve-slope :end 180 :from (heights ...) :to (heights ...) :hill (heights ...))
	s.register(env, "curve-slope", keys(append(ring, "from", "to", "hill")...), func(s *session, pa kwArgs) (zygo.Sexp, error) {
		g := curve.DefaultCurveSlope()
		err := errors.Join(
			pa.intKW("n", &g.N),
			pa.floatKW("inner0", &g.InnerRadius0),
			pa.floatKW("outer0", &g.OuterRadius0),
			pa.floatKW("inner1", &g.InnerRadius1),
			pa.floatKW("outer1", &g.OuterRadius1),
			pa.floatKW("start", &g.StartAngle),
			pa.floatKW("end", &g.EndAngle),
			pa.heightsKW("from", &g.Start),
			pa.heightsKW("to", &g.End),
			pa.heightsKW("hill", &g.Hill),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.queue(pipeline.Generate("", g), pa)
	})

	// (rayto :n 12 :start-radius 32 :end-radius 32 :end 90 :x 32 :y 32 :height 8)
	s.register(env, "rayto", keys("n", "start-radius", "end-radius", "start", "end", "x", "y", "height"), func(s *session, pa kwArgs) (zygo.Sexp, error) {
		g := curve.DefaultRayto()
		err := errors.Join(
			pa.intKW("n", &g.N),
			pa.floatKW("start-radius", &g.StartRadius),
			pa.floatKW("end-radius", &g.EndRadius),
			pa.floatKW("start", &g.StartAngle),
			pa.floatKW("end", &g.EndAngle),
			pa.floatKW("x", &g.X),
			pa.floatKW("y", &g.Y),
			pa.floatKW("height", &g.Height),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.queue(pipeline.Generate("", g), pa)
	})

	// (bank :n 24 :inner 64 :outer 128 :end 90 :height 64 :thickness 8 :fill false)
	s.register(env, "bank", keys("n", "inner", "outer", "start", "end", "height", "thickness", "fill"), func(s *session, pa kwArgs) (zygo.Sexp, error) {
		g := curve.DefaultBank()
		err := errors.Join(
			pa.intKW("n", &g.N),
			pa.floatKW("inner", &g.InnerRadius),
			pa.floatKW("outer", &g.OuterRadius),
			pa.floatKW("start", &g.StartAngle),
			pa.floatKW("end", &g.EndAngle),
			pa.floatKW("height", &g.Height),
			pa.floatKW("thickness", &g.Thickness),
			pa.boolKW("fill", &g.Fill),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.queue(pipeline.Generate("", g), pa)
	})
}
