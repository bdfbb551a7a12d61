package annotation

import (
	"image"

	"gocv.io/x/gocv"
)

// Simplify reduces the vertex count of the polygon for color using
// Douglas-Peucker approximation with the given tolerance in image pixels.
// Free-drawn outlines accumulate many near-collinear vertices; this trims
// them while keeping the shape within epsilon of the original. Results with
// fewer than three vertices leave the polygon unchanged. Returns true when
// the polygon was rewritten.
func (s *Store) Simplify(color string, epsilon float64) bool {
	poly := s.polygons[color]
	if poly == nil || poly.Len() < 4 {
		return false
	}

	pts := make([]image.Point, poly.Len())
	for i, p := range poly.Points {
		pts[i] = image.Pt(int(p.X+0.5), int(p.Y+0.5))
	}

	curve := gocv.NewPointVectorFromPoints(pts)
	defer curve.Close()

	approx := gocv.ApproxPolyDP(curve, epsilon, poly.Closed)
	defer approx.Close()

	if approx.Size() < 3 {
		return false
	}

	reduced := make([]*Point, approx.Size())
	for i := 0; i < approx.Size(); i++ {
		p := approx.At(i)
		reduced[i] = NewPoint(float64(p.X), float64(p.Y))
	}
	poly.Points = reduced
	s.notify()
	return true
}
