// Package geometry assembles the geometry record of a placed diagram.
//
// The record is the only artifact the drawing stage needs: the canvas size,
// the center of every visible box, the value of every leg, the arrow-head
// offset of every arrow leg, and the color table. It is independent of any
// drawing backend; package emit turns it into source code and [Marshal] into the
// standalone data file.
//
// Entries always come in the order size, cx, cy, k, t, colors, and each
// mapping keeps the order in which its keys were produced: boxes in row then
// column order, legs in box order, colors sorted by key.
package geometry

import (
	"github.com/matzehuels/erdgeo/pkg/mcd"
	"github.com/matzehuels/erdgeo/pkg/style"
)

// ArrowOffset is the fraction along a connector where an arrow head sits.
const ArrowOffset = 0.5

// Entry names, in record order.
const (
	EntrySize   = "size"
	EntryCX     = "cx"
	EntryCY     = "cy"
	EntryK      = "k"
	EntryT      = "t"
	EntryColors = "colors"
)

// Size is the canvas size.
type Size struct {
	Width  int
	Height int
}

// Item is one key/value pair of a mapping.
type Item struct {
	Key   string
	Value mcd.Value
}

// Mapping is an ordered key/value mapping.
type Mapping []Item

// Get returns the value stored under key.
func (m Mapping) Get(key string) (mcd.Value, bool) {
	for _, it := range m {
		if it.Key == key {
			return it.Value, true
		}
	}
	return mcd.Value{}, false
}

// Keys returns the keys in order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m))
	for i, it := range m {
		keys[i] = it.Key
	}
	return keys
}

// Record is the geometry of one diagram.
type Record struct {
	Size   Size
	CX     Mapping
	CY     Mapping
	K      Mapping
	T      Mapping
	Colors Mapping
}

// Entry is a named mapping of the record.
type Entry struct {
	Name    string
	Mapping Mapping
}

// Entries returns every mapping entry (all but size) in record order.
func (r *Record) Entries() []Entry {
	return []Entry{
		{EntryCX, r.CX},
		{EntryCY, r.CY},
		{EntryK, r.K},
		{EntryT, r.T},
		{EntryColors, r.Colors},
	}
}

// Build assembles the record for d using the colors of s.
//
// Phantom boxes are left out of cx and cy, but their legs still appear in k
// (and in t when they carry an arrow).
func Build(d *mcd.Diagram, s style.Style) *Record {
	r := &Record{Size: Size{Width: d.W, Height: d.H}}

	for _, row := range d.Rows {
		for _, b := range row {
			if !b.IsPhantom() {
				r.CX = append(r.CX, Item{b.Name, mcd.Int(b.CenterX())})
				r.CY = append(r.CY, Item{b.Name, mcd.Int(b.CenterY())})
			}
			for _, leg := range b.Legs {
				r.K = append(r.K, Item{leg.Identifier(), leg.Value()})
				if leg.Arrow() {
					r.T = append(r.T, Item{leg.Identifier(), mcd.Float(ArrowOffset)})
				}
			}
		}
	}

	for _, key := range s.ColorKeys() {
		r.Colors = append(r.Colors, Item{key, s.Color(key)})
	}
	return r
}
