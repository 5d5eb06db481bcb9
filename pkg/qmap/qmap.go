// Package qmap reads and writes brushes in the Quake 3 map text format
// used by Neverball and TrenchBroom.
//
// A document is a list of comment metadata lines followed by entity
// blocks. Each entity holds ordered key/value properties and brush
// blocks; each brush is one plane record per line:
//
//	( x y z ) ( x y z ) ( x y z ) texture offX offY rot scaleX scaleY contents flags value
//
// The three points are ordered so (p0-p1)×(p2-p1) is the outward normal.
package qmap

import (
	"errors"
	"strconv"

	"github.com/chazu/curveball/pkg/brush"
)

// ErrSerialization wraps every failure to write a document.
var ErrSerialization = errors.New("map serialization failed")

// Property is one "key" "value" pair of an entity.
type Property struct {
	Key   string
	Value string
}

// Entity is a map entity with its brushes.
type Entity struct {
	Properties []Property
	Brushes    []*brush.Brush
}

// Get returns the value of the first property with the given key.
func (e Entity) Get(key string) (string, bool) {
	for _, p := range e.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Worldspawn returns the static-geometry entity holding brushes.
func Worldspawn(brushes []*brush.Brush) Entity {
	return Entity{
		Properties: []Property{{Key: "classname", Value: "worldspawn"}},
		Brushes:    brushes,
	}
}

// Group returns a TrenchBroom group entity, which editors show as one
// selectable unit.
func Group(name string, id int, brushes []*brush.Brush) Entity {
	return Entity{
		Properties: []Property{
			{Key: "classname", Value: "func_group"},
			{Key: "_tb_type", Value: "_tb_group"},
			{Key: "_tb_name", Value: name},
			{Key: "_tb_id", Value: strconv.Itoa(id)},
		},
		Brushes: brushes,
	}
}

// Document is a whole map file.
type Document struct {
	Metadata []string
	Entities []Entity
}

// NewDocument returns a document with the given entities and no metadata.
func NewDocument(entities ...Entity) Document {
	return Document{Entities: entities}
}

// WithMetadata returns a copy of d with extra header comment lines.
func (d Document) WithMetadata(lines ...string) Document {
	meta := make([]string, 0, len(d.Metadata)+len(lines))
	meta = append(meta, d.Metadata...)
	meta = append(meta, lines...)
	d.Metadata = meta
	return d
}

// WithNeverballMetadata adds the header TrenchBroom uses to detect a
// Neverball Quake 3 map.
func (d Document) WithNeverballMetadata() Document {
	return d.WithMetadata("Game: Neverball", "Format: Quake3")
}

// BrushCount returns the number of brushes across all entities.
func (d Document) BrushCount() int {
	n := 0
	for _, e := range d.Entities {
		n += len(e.Brushes)
	}
	return n
}
