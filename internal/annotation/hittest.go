package annotation

import (
	"math"

	"ezlabel/pkg/geometry"
)

// PointHit identifies a vertex found near a query position.
type PointHit struct {
	Point *Point
	Color string
	Index int
}

// SegmentHit identifies an edge found near a query position, with the
// clamped perpendicular projection of the query onto that edge.
type SegmentHit struct {
	Color string
	Index int // Index of the segment's first vertex; insertion goes after it
	X     float64
	Y     float64
}

// NearestPoint returns the vertex closest to the image-space query whose
// distance on screen (image distance times scale) is within radius viewport
// pixels. Colors are scanned in sorted key order and vertices in index
// order, so ties resolve deterministically.
func (s *Store) NearestPoint(x, y, radius, scale float64) (PointHit, bool) {
	query := geometry.Point2D{X: x, Y: y}
	best := PointHit{}
	bestDist := math.Inf(1)
	found := false

	for _, color := range s.SortedKeys() {
		poly := s.polygons[color]
		for i, pt := range poly.Points {
			d := pt.Pos().Distance(query)
			if d < bestDist && d*scale <= radius {
				bestDist = d
				best = PointHit{Point: pt, Color: color, Index: i}
				found = true
			}
		}
	}
	return best, found
}

// NearestSegment returns the edge whose clamped projection of the query
// point is within radius viewport pixels, scanning all polygons including
// the derived closing edge of closed ones.
func (s *Store) NearestSegment(x, y, radius, scale float64) (SegmentHit, bool) {
	query := geometry.Point2D{X: x, Y: y}
	best := SegmentHit{}
	bestDist := math.Inf(1)
	found := false

	for _, color := range s.SortedKeys() {
		poly := s.polygons[color]
		for i := 0; i < poly.SegmentCount(); i++ {
			a, b := poly.Segment(i)
			proj := geometry.ProjectOntoSegment(query, a.Pos(), b.Pos())

			// Compare in viewport space so the radius tracks the zoom.
			viewDist := proj.Dist * scale
			if viewDist < bestDist && viewDist <= radius {
				bestDist = viewDist
				best = SegmentHit{Color: color, Index: i, X: proj.Point.X, Y: proj.Point.Y}
				found = true
			}
		}
	}
	return best, found
}

// SnapToOtherPoint returns the position of another vertex within radius
// image units of (x, y), excluding the vertex being dragged. Used for
// vertex merging while dragging.
func (s *Store) SnapToOtherPoint(x, y, radius float64, exclude *Point) (geometry.Point2D, bool) {
	query := geometry.Point2D{X: x, Y: y}
	for _, color := range s.SortedKeys() {
		poly := s.polygons[color]
		for _, pt := range poly.Points {
			if pt == exclude {
				continue
			}
			if pt.Pos().Distance(query) < radius {
				return pt.Pos(), true
			}
		}
	}
	return geometry.Point2D{}, false
}
