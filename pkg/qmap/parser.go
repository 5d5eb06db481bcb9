package qmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/geom"
)

// ErrSyntax is wrapped by every *SyntaxError.
var ErrSyntax = errors.New("map syntax error")

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// PlaneRecord is one plane line as read from a map.
type PlaneRecord struct {
	Points   [3]geom.Vec3
	Texture  brush.Texture
	Contents int
	Flags    int
	Value    int
}

// Plane returns the outward unit normal and offset of the record. It
// fails when the three points are collinear.
func (r PlaneRecord) Plane() (geom.Vec3, float64, error) {
	p0, p1, p2 := r.Points[0], r.Points[1], r.Points[2]
	n := p0.Sub(p1).Cross(p2.Sub(p1))
	if n.Length() == 0 || !geom.Finite3(n) {
		return geom.Vec3{}, 0, errors.New("plane points are collinear")
	}
	n = n.Normalize()
	return n, n.Dot(p1), nil
}

// ParsedEntity is an entity read from a map.
type ParsedEntity struct {
	Properties []Property
	Brushes    [][]PlaneRecord
}

// Get returns the value of the first property with the given key.
func (e ParsedEntity) Get(key string) (string, bool) {
	return Entity{Properties: e.Properties}.Get(key)
}

// ParsedMap is a map document as read back from text.
type ParsedMap struct {
	Metadata []string
	Entities []ParsedEntity
}

// BrushCount returns the number of brushes across all entities.
func (m *ParsedMap) BrushCount() int {
	n := 0
	for _, e := range m.Entities {
		n += len(e.Brushes)
	}
	return n
}

// Parse reads a map document. Comment lines before the first entity,
// other than the "entity N" markers, become Metadata.
func Parse(r io.Reader) (*ParsedMap, error) {
	m := &ParsedMap{Metadata: []string{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	depth := 0
	var ent *ParsedEntity
	var planes []PlaneRecord
	lineNo := 0
	fail := func(format string, args ...any) error {
		return &SyntaxError{Line: lineNo, Message: fmt.Sprintf(format, args...)}
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "//"):
			text := strings.TrimSpace(strings.TrimPrefix(line, "//"))
			if depth == 0 && len(m.Entities) == 0 && !strings.HasPrefix(text, "entity ") {
				m.Metadata = append(m.Metadata, text)
			}
		case line == "{":
			switch depth {
			case 0:
				m.Entities = append(m.Entities, ParsedEntity{})
				ent = &m.Entities[len(m.Entities)-1]
			case 1:
				planes = nil
			default:
				return nil, fail("unexpected '{' inside a brush")
			}
			depth++
		case line == "}":
			switch depth {
			case 0:
				return nil, fail("unbalanced '}'")
			case 2:
				ent.Brushes = append(ent.Brushes, planes)
			}
			depth--
		case depth == 1 && strings.HasPrefix(line, `"`):
			p, err := parseProperty(line)
			if err != nil {
				return nil, fail("%v", err)
			}
			ent.Properties = append(ent.Properties, p)
		case depth == 2 && strings.HasPrefix(line, "("):
			rec, err := parsePlane(line)
			if err != nil {
				return nil, fail("%v", err)
			}
			planes = append(planes, rec)
		default:
			return nil, fail("unexpected %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if depth != 0 {
		return nil, fail("unterminated block")
	}
	return m, nil
}

func parseProperty(line string) (Property, error) {
	parts := strings.Split(line, `"`)
	// `"k" "v"` splits into "", k, " ", v, "".
	if len(parts) != 5 || parts[0] != "" || strings.TrimSpace(parts[2]) != "" || strings.TrimSpace(parts[4]) != "" {
		return Property{}, fmt.Errorf("malformed property %q", line)
	}
	return Property{Key: parts[1], Value: parts[3]}, nil
}

func parsePlane(line string) (PlaneRecord, error) {
	f := strings.Fields(line)
	// 3 × "( x y z )" then name, five texture numbers and optionally three flags.
	if len(f) != 21 && len(f) != 24 {
		return PlaneRecord{}, fmt.Errorf("plane has %d fields", len(f))
	}
	var rec PlaneRecord
	for i := range 3 {
		g := f[i*5 : i*5+5]
		if g[0] != "(" || g[4] != ")" {
			return PlaneRecord{}, fmt.Errorf("point %d is not parenthesised", i)
		}
		var xyz [3]float64
		for j := range 3 {
			v, err := strconv.ParseFloat(g[j+1], 64)
			if err != nil {
				return PlaneRecord{}, fmt.Errorf("point %d: %w", i, err)
			}
			xyz[j] = v
		}
		rec.Points[i] = geom.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	rec.Texture.Name = f[15]
	nums := make([]float64, 5)
	for i := range nums {
		v, err := strconv.ParseFloat(f[16+i], 64)
		if err != nil {
			return PlaneRecord{}, fmt.Errorf("texture parameter %d: %w", i, err)
		}
		nums[i] = v
	}
	rec.Texture.OffsetX, rec.Texture.OffsetY, rec.Texture.Rotation = nums[0], nums[1], nums[2]
	rec.Texture.ScaleX, rec.Texture.ScaleY = nums[3], nums[4]
	if len(f) == 24 {
		flags := make([]int, 3)
		for i := range flags {
			v, err := strconv.Atoi(f[21+i])
			if err != nil {
				return PlaneRecord{}, fmt.Errorf("flag %d: %w", i, err)
			}
			flags[i] = v
		}
		rec.Contents, rec.Flags, rec.Value = flags[0], flags[1], flags[2]
	}
	return rec, nil
}
