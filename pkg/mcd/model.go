// Package mcd defines the placed diagram model that erdgeo consumes.
//
// A [Diagram] is a rectangular arrangement of rows, each an ordered sequence
// of [Box] values. Boxes carry their final position and size together with
// the connector legs anchored to them. Placement (row/column assignment and
// coordinates) is computed upstream; nothing in this module mutates a
// Diagram once it has been parsed.
//
// # Legs
//
// A [Leg] is one end of a relationship line. It exposes a stable identifier
// used to name output fields, the value that positions it, and whether an
// arrow head is drawn partway along its connector. [StaticLeg] is the
// concrete implementation produced by [ListingParser].
//
// # Phantom Boxes
//
// Boxes of kind [KindPhantom] are layout placeholders. They are excluded
// from center coordinates but their legs still count.
package mcd

// KindPhantom marks a layout-only placeholder box.
const KindPhantom = "phantom"

// Diagram is a placed entity-relationship diagram.
type Diagram struct {
	W    int
	H    int
	Rows [][]*Box
}

// Box is a named rectangular region of the diagram.
type Box struct {
	Name       string
	Kind       string
	X, Y       int
	W, H       int
	Attributes []string
	Legs       []Leg
}

// IsPhantom reports whether b is a layout placeholder.
func (b *Box) IsPhantom() bool { return b.Kind == KindPhantom }

// CenterX returns the horizontal center, truncated to an integer.
func (b *Box) CenterX() int { return b.X + b.W/2 }

// CenterY returns the vertical center, truncated to an integer.
func (b *Box) CenterY() int { return b.Y + b.H/2 }

// Leg is a connector endpoint anchored to a box.
type Leg interface {
	Identifier() string
	Value() Value
	Arrow() bool
}

// StaticLeg is a leg whose identifier and value were fixed upstream.
type StaticLeg struct {
	ID       string
	Offset   Value
	HasArrow bool
}

func (l StaticLeg) Identifier() string { return l.ID }
func (l StaticLeg) Value() Value       { return l.Offset }
func (l StaticLeg) Arrow() bool        { return l.HasArrow }

// Boxes returns every box in row-then-column order.
func (d *Diagram) Boxes() []*Box {
	var out []*Box
	for _, row := range d.Rows {
		out = append(out, row...)
	}
	return out
}

// BoxCount returns the number of boxes, phantoms included.
func (d *Diagram) BoxCount() int {
	n := 0
	for _, row := range d.Rows {
		n += len(row)
	}
	return n
}

// LegCount returns the number of legs across all boxes.
func (d *Diagram) LegCount() int {
	n := 0
	for _, row := range d.Rows {
		for _, b := range row {
			n += len(b.Legs)
		}
	}
	return n
}

// Parser turns decoded source lines into a placed diagram.
type Parser interface {
	Parse(lines []string) (*Diagram, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(lines []string) (*Diagram, error)

// Parse calls f(lines).
func (f ParserFunc) Parse(lines []string) (*Diagram, error) { return f(lines) }
