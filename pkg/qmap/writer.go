package qmap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/geom"
)

// Write serialises d to w. Entities, brushes and planes keep their order.
func Write(w io.Writer, d Document) error {
	if err := d.check(); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	bw := bufio.NewWriter(w)
	for _, meta := range d.Metadata {
		for _, line := range strings.Split(meta, "\n") {
			fmt.Fprintf(bw, "// %s\n", line)
		}
	}
	for i, e := range d.Entities {
		fmt.Fprintf(bw, "// entity %d\n{\n", i)
		for _, p := range e.Properties {
			fmt.Fprintf(bw, "\"%s\" \"%s\"\n", p.Key, p.Value)
		}
		for j, b := range e.Brushes {
			fmt.Fprintf(bw, "// brush %d\n{\n", j)
			for _, p := range b.Planes() {
				writePlane(bw, p)
			}
			bw.WriteString("}\n")
		}
		bw.WriteString("}\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return nil
}

// String renders d, or returns the empty string if d cannot be written.
func (d Document) String() string {
	var sb strings.Builder
	if err := Write(&sb, d); err != nil {
		return ""
	}
	return sb.String()
}

func writePlane(w *bufio.Writer, p brush.Plane) {
	for _, pt := range p.Points {
		fmt.Fprintf(w, "( %s %s %s ) ", coord(pt.X), coord(pt.Y), coord(pt.Z))
	}
	t := p.Texture
	fmt.Fprintf(w, "%s %s %s %s %s %s 0 0 0\n",
		t.Name, num(t.OffsetX), num(t.OffsetY), num(t.Rotation), num(t.ScaleX), num(t.ScaleY))
}

// coord formats a coordinate with six decimals, folding negative zero.
func coord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if s == "-0.000000" {
		return "0.000000"
	}
	return s
}

// num formats a texture parameter in its shortest exact form.
func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// check rejects text the grammar cannot carry.
func (d Document) check() error {
	for _, meta := range d.Metadata {
		if strings.ContainsRune(meta, '\r') {
			return fmt.Errorf("metadata %q contains a carriage return", meta)
		}
	}
	for i, e := range d.Entities {
		for _, p := range e.Properties {
			if strings.ContainsAny(p.Key, "\"\n\\") || strings.ContainsAny(p.Value, "\"\n\\") {
				return fmt.Errorf("entity %d: property %q cannot be quoted", i, p.Key)
			}
		}
		for j, b := range e.Brushes {
			if b == nil {
				return fmt.Errorf("entity %d: brush %d is nil", i, j)
			}
			for _, p := range b.Planes() {
				if p.Texture.Name == "" || strings.ContainsAny(p.Texture.Name, " \t\n\"") {
					return fmt.Errorf("entity %d: brush %d: invalid texture name %q", i, j, p.Texture.Name)
				}
				if !geom.AllFinite(p.Texture.OffsetX, p.Texture.OffsetY, p.Texture.Rotation, p.Texture.ScaleX, p.Texture.ScaleY) {
					return fmt.Errorf("entity %d: brush %d: texture parameters must be finite", i, j)
				}
			}
		}
	}
	return nil
}
