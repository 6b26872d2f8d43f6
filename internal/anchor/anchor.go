// Package anchor builds the immutable anchor table.
//
// Anchors are computed once from the position alone and are never mutated,
// so reads need no synchronization.
package anchor

import (
	"math"
	"strconv"
)

// Positions are the anchor positions, in ascending order.
var Positions = [3]int{3, 6, 9}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Property is a named descriptive property of an anchor.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is the precomputed data of one anchor position.
type Record struct {
	Position      int        `json:"position"`
	Radius        float64    `json:"radius"`
	Coordinates   []Point    `json:"coordinates"`
	Intersections []Point    `json:"intersections"`
	Properties    []Property `json:"properties"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.Coordinates = append([]Point(nil), r.Coordinates...)
	out.Intersections = append([]Point(nil), r.Intersections...)
	out.Properties = append([]Property(nil), r.Properties...)
	return out
}

// Property returns the value of the named property.
func (r Record) Property(name string) (string, bool) {
	for _, p := range r.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// IsAnchor reports whether position is an anchor position.
func IsAnchor(position int) bool {
	return index(position) >= 0
}

func index(position int) int {
	for i, p := range Positions {
		if p == position {
			return i
		}
	}
	return -1
}

// Build computes the anchor records. It is pure and deterministic.
func Build() [3]Record {
	var out [3]Record
	for i, p := range Positions {
		out[i] = build(p)
	}
	return out
}

func build(position int) Record {
	r := float64(position)

	// Vertices of the regular polygon with `position` corners on the circle.
	coords := make([]Point, position)
	for k := range coords {
		theta := 2 * math.Pi * float64(k) / float64(position)
		coords[k] = point(r*math.Cos(theta), r*math.Sin(theta))
	}

	// Axis crossings, counter-clockwise from +x.
	intersections := []Point{
		{X: r, Y: 0},
		{X: 0, Y: r},
		{X: -r, Y: 0},
		{X: 0, Y: -r},
	}

	return Record{
		Position:      position,
		Radius:        r,
		Coordinates:   coords,
		Intersections: intersections,
		Properties: []Property{
			{Name: "radius", Value: strconv.Itoa(position)},
			{Name: "vertices", Value: strconv.Itoa(position)},
			{Name: "circumference", Value: formatFloat(2 * math.Pi * r)},
			{Name: "area", Value: formatFloat(math.Pi * r * r)},
			{Name: "digital_root", Value: strconv.Itoa(digitalRoot(position))},
		},
	}
}

// point rounds away float noise so that e.g. cos(pi/2) reads as 0.
func point(x, y float64) Point {
	return Point{X: round(x), Y: round(y)}
}

func round(v float64) float64 {
	const scale = 1e9
	v = math.Round(v*scale) / scale
	if v == 0 {
		return 0 // drop negative zero
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func digitalRoot(n int) int {
	if n == 0 {
		return 0
	}
	return 1 + (n-1)%9
}

// Table is an immutable lookup of anchor records by position.
type Table struct {
	records [3]Record
}

// New builds the anchor table.
func New() *Table {
	return &Table{records: Build()}
}

// Get returns a copy of the anchor record at position, if position is an anchor.
func (t *Table) Get(position int) (Record, bool) {
	i := index(position)
	if i < 0 {
		return Record{}, false
	}
	return t.records[i].Clone(), true
}

// All returns copies of all anchor records in position order.
func (t *Table) All() []Record {
	out := make([]Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r.Clone())
	}
	return out
}
