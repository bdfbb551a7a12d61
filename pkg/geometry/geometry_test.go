package geometry

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(3, 4)
	if d := a.Distance(b); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Point2D{X: 300, Y: 100}, Point2D{X: 100, Y: 300})
	if r.X != 100 || r.Y != 100 || r.Width != 200 || r.Height != 200 {
		t.Errorf("RectFromCorners = %+v, want {100 100 200 200}", r)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	if !r.Contains(Point2D{X: 15, Y: 15}) {
		t.Error("interior point should be contained")
	}
	// Boundary is inclusive
	if !r.Contains(Point2D{X: 10, Y: 10}) || !r.Contains(Point2D{X: 30, Y: 30}) {
		t.Error("boundary points should be contained")
	}
	if r.Contains(Point2D{X: 30.01, Y: 15}) {
		t.Error("exterior point should not be contained")
	}
}

func TestProjectOntoSegment(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}

	// Perpendicular foot inside the segment
	proj := ProjectOntoSegment(Point2D{X: 5, Y: 3}, a, b)
	if proj.Point.X != 5 || proj.Point.Y != 0 {
		t.Errorf("projection = %+v, want (5,0)", proj.Point)
	}
	if proj.T != 0.5 || proj.Dist != 3 {
		t.Errorf("t=%v dist=%v, want 0.5 and 3", proj.T, proj.Dist)
	}

	// Beyond the far endpoint clamps to b
	proj = ProjectOntoSegment(Point2D{X: 15, Y: 0}, a, b)
	if proj.T != 1 || proj.Point != b {
		t.Errorf("clamped projection = %+v t=%v, want b and t=1", proj.Point, proj.T)
	}

	// Degenerate segment
	proj = ProjectOntoSegment(Point2D{X: 3, Y: 4}, a, a)
	if proj.Dist != 5 {
		t.Errorf("degenerate dist = %v, want 5", proj.Dist)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	c := Centroid(pts)
	if c.X != 5 || c.Y != 5 {
		t.Errorf("Centroid = %+v, want (5,5)", c)
	}
}

func TestSortAngular(t *testing.T) {
	// Square corners given out of order
	pts := []Point2D{
		{X: 10, Y: 0},
		{X: 0, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}
	SortAngular(pts)

	// Walking the result must traverse the square boundary: consecutive
	// points always share an edge, never a diagonal.
	diag := math.Sqrt(200)
	for i := range pts {
		next := pts[(i+1)%len(pts)]
		if d := pts[i].Distance(next); math.Abs(d-diag) < 1e-9 {
			t.Fatalf("points %d and %d are diagonal neighbors: %+v", i, (i+1)%len(pts), pts)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 5, Y: 7}, {X: -3, Y: 2}, {X: 9, Y: 4}}
	box := BoundingBox(pts)
	if box.X != -3 || box.Y != 2 || box.Width != 12 || box.Height != 5 {
		t.Errorf("BoundingBox = %+v", box)
	}

	if box := BoundingBox(nil); box != (Rect{}) {
		t.Errorf("empty BoundingBox = %+v, want zero", box)
	}
}
