// Package annotation holds the polygon data model and the store that owns
// the polygon collection, keyed by color.
package annotation

import (
	"ezlabel/pkg/geometry"
)

// Point is a polygon vertex. Points are shared by pointer so a vertex keeps
// its identity while being dragged; two points are value-equal iff their
// coordinates match exactly.
type Point struct {
	X float64
	Y float64
}

// NewPoint creates a vertex at the given image-space position.
func NewPoint(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

// Pos returns the vertex position as a geometry point.
func (p *Point) Pos() geometry.Point2D {
	return geometry.Point2D{X: p.X, Y: p.Y}
}

// MoveTo repositions the vertex, preserving its identity.
func (p *Point) MoveTo(x, y float64) {
	p.X = x
	p.Y = y
}

// Equals reports value equality of two vertices.
func (p *Point) Equals(other *Point) bool {
	return other != nil && p.X == other.X && p.Y == other.Y
}

// Polygon is an ordered vertex sequence with a color identity key and a
// class id. A closed polygon has an implicit edge from its last vertex back
// to the first; that edge is derived from Closed, never stored as a
// duplicate vertex.
type Polygon struct {
	Points  []*Point
	Color   string
	ClassID string
	Closed  bool
}

// NewPolygon starts an open polygon for the given color.
func NewPolygon(color string) *Polygon {
	return &Polygon{Color: color, ClassID: ""}
}

// Len returns the number of stored vertices.
func (p *Polygon) Len() int {
	return len(p.Points)
}

// First returns the first vertex, or nil for an empty polygon.
func (p *Polygon) First() *Point {
	if len(p.Points) == 0 {
		return nil
	}
	return p.Points[0]
}

// Last returns the last vertex, or nil for an empty polygon.
func (p *Polygon) Last() *Point {
	if len(p.Points) == 0 {
		return nil
	}
	return p.Points[len(p.Points)-1]
}

// Append adds a vertex at the end of the sequence.
func (p *Polygon) Append(pt *Point) {
	p.Points = append(p.Points, pt)
}

// InsertAfter inserts a vertex immediately after index idx.
func (p *Polygon) InsertAfter(idx int, pt *Point) {
	if idx < 0 || idx >= len(p.Points) {
		return
	}
	p.Points = append(p.Points, nil)
	copy(p.Points[idx+2:], p.Points[idx+1:])
	p.Points[idx+1] = pt
}

// SegmentCount returns the number of edges, including the derived closing
// edge when the polygon is closed.
func (p *Polygon) SegmentCount() int {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	if p.Closed {
		return n
	}
	return n - 1
}

// Segment returns the endpoints of edge i. For a closed polygon the last
// edge wraps from the final vertex back to the first.
func (p *Polygon) Segment(i int) (*Point, *Point) {
	return p.Points[i], p.Points[(i+1)%len(p.Points)]
}

// Vertices returns a value copy of the vertex positions in drawing order.
func (p *Polygon) Vertices() []geometry.Point2D {
	out := make([]geometry.Point2D, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Pos()
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p *Polygon) Bounds() geometry.Rect {
	return geometry.BoundingBox(p.Vertices())
}
