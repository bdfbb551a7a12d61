package geometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SegmentProjection is the result of projecting a point onto a line segment.
type SegmentProjection struct {
	Point Point2D // Foot of the perpendicular, clamped to the segment
	T     float64 // Parameter along the segment in [0, 1]
	Dist  float64 // Distance from the query point to Point
}

// ProjectOntoSegment projects p onto the segment a-b, clamping the foot of
// the perpendicular to the segment endpoints.
func ProjectOntoSegment(p, a, b Point2D) SegmentProjection {
	dx := b.X - a.X
	dy := b.Y - a.Y

	// Degenerate segment collapses to a point.
	if dx == 0 && dy == 0 {
		return SegmentProjection{Point: a, T: 0, Dist: p.Distance(a)}
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	proj := Point2D{X: a.X + t*dx, Y: a.Y + t*dy}
	return SegmentProjection{Point: proj, T: t, Dist: p.Distance(proj)}
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return Point2D{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
}

// SortAngular orders points counter-clockwise around their centroid using
// the atan2 angle. Points at identical angles keep their relative order.
// The input slice is sorted in place and returned.
func SortAngular(points []Point2D) []Point2D {
	if len(points) < 3 {
		return points
	}
	c := Centroid(points)
	sort.SliceStable(points, func(i, j int) bool {
		ai := math.Atan2(points[i].Y-c.Y, points[i].X-c.X)
		aj := math.Atan2(points[j].Y-c.Y, points[j].X-c.X)
		return ai < aj
	})
	return points
}
