package annotation

import (
	"testing"

	"ezlabel/pkg/geometry"
)

const red = "#FF0000"

func TestCreateOrAppendBuildsPolygon(t *testing.T) {
	s := NewStore()

	if res := s.CreateOrAppend(10, 10, red); res != AppendCreated {
		t.Fatalf("first click = %v, want AppendCreated", res)
	}
	if res := s.CreateOrAppend(100, 10, red); res != AppendAdded {
		t.Fatalf("second click = %v, want AppendAdded", res)
	}
	s.CreateOrAppend(100, 100, red)

	poly := s.Get(red)
	if poly == nil || poly.Len() != 3 || poly.Closed {
		t.Fatalf("unexpected polygon state: %+v", poly)
	}
}

func TestCreateOrAppendClosesNearFirstVertex(t *testing.T) {
	s := NewStore()
	s.ClassPrompt = func() (string, bool) { return "5", true }

	s.CreateOrAppend(10, 10, red)
	s.CreateOrAppend(100, 10, red)
	s.CreateOrAppend(100, 100, red)

	// Within CloseRadius of the first vertex
	if res := s.CreateOrAppend(15, 13, red); res != AppendClosed {
		t.Fatalf("closing click = %v, want AppendClosed", res)
	}

	poly := s.Get(red)
	if !poly.Closed {
		t.Fatal("polygon should be closed")
	}
	if poly.ClassID != "5" {
		t.Errorf("ClassID = %q, want 5", poly.ClassID)
	}
	// The closing click must not add a vertex, and no duplicate of the
	// first vertex may be stored.
	if poly.Len() != 3 {
		t.Errorf("Len = %d, want 3", poly.Len())
	}
	if poly.First().Equals(poly.Last()) {
		t.Error("first vertex duplicated at the end")
	}

	// Further clicks on a closed polygon are ignored
	if res := s.CreateOrAppend(500, 500, red); res != AppendIgnored {
		t.Errorf("click on closed polygon = %v, want AppendIgnored", res)
	}
	if poly.Len() != 3 {
		t.Errorf("closed polygon grew to %d vertices", poly.Len())
	}
}

func TestCloseRequiresTwoVertices(t *testing.T) {
	s := NewStore()
	s.CreateOrAppend(10, 10, red)

	// A click near the only vertex must append, not close.
	if res := s.CreateOrAppend(12, 12, red); res != AppendAdded {
		t.Fatalf("second click = %v, want AppendAdded", res)
	}
	if s.ClosePolygon(red) != true {
		t.Fatal("two-vertex polygon should be closable")
	}

	if s.ClosePolygon("#012345") {
		t.Error("unknown color key should not close anything")
	}
}

func TestCreateBox(t *testing.T) {
	s := NewStore()
	s.ClassPrompt = func() (string, bool) { return "3", true }

	// Corners given bottom-right to top-left still normalize.
	s.CreateBox(geometry.Point2D{X: 300, Y: 300}, geometry.Point2D{X: 100, Y: 100}, red)

	poly := s.Get(red)
	if poly == nil || !poly.Closed || poly.ClassID != "3" {
		t.Fatalf("unexpected box: %+v", poly)
	}
	want := []geometry.Point2D{
		{X: 100, Y: 100},
		{X: 300, Y: 100},
		{X: 300, Y: 300},
		{X: 100, Y: 300},
	}
	got := poly.Vertices()
	if len(got) != 4 {
		t.Fatalf("vertex count = %d, want 4", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("corner %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCreateBoxReplacesExisting(t *testing.T) {
	s := NewStore()
	s.CreateOrAppend(5, 5, red)
	s.CreateBox(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 10}, red)

	if s.Len() != 1 {
		t.Fatalf("store holds %d polygons, want 1", s.Len())
	}
	if s.Get(red).Len() != 4 {
		t.Errorf("box has %d vertices, want 4", s.Get(red).Len())
	}
}

func TestDeletePointUnderflowRemovesPolygon(t *testing.T) {
	s := NewStore()
	s.CreateOrAppend(0, 0, red)
	s.CreateOrAppend(10, 0, red)

	s.DeletePoint(red, 0)
	if s.Get(red) != nil {
		t.Error("polygon with one remaining vertex should be removed")
	}

	// Stale key is a no-op
	s.DeletePoint(red, 0)
	s.DeletePoint("#ABCDEF", 3)
}

func TestInsertPointOnSegment(t *testing.T) {
	s := NewStore()
	s.CreateOrAppend(0, 0, red)
	s.CreateOrAppend(100, 0, red)
	s.CreateOrAppend(100, 100, red)

	s.InsertPointOnSegment(red, 0, 50, 0)

	poly := s.Get(red)
	if poly.Len() != 4 {
		t.Fatalf("Len = %d, want 4", poly.Len())
	}
	if poly.Points[1].X != 50 || poly.Points[1].Y != 0 {
		t.Errorf("inserted vertex = (%v, %v), want (50, 0)", poly.Points[1].X, poly.Points[1].Y)
	}
}

func TestReopenForEditStripsLegacyDuplicate(t *testing.T) {
	s := NewStore()
	poly := NewPolygon(red)
	poly.Append(NewPoint(0, 0))
	poly.Append(NewPoint(10, 0))
	poly.Append(NewPoint(10, 10))
	poly.Append(NewPoint(0, 0)) // Legacy closure marker
	poly.Closed = true
	s.SetPolygons([]*Polygon{poly})

	s.ReopenForEdit(red)

	got := s.Get(red)
	if got.Closed {
		t.Error("polygon should be open")
	}
	if got.Len() != 3 {
		t.Errorf("Len = %d, want 3 after stripping the duplicate", got.Len())
	}
}

func TestCaptureLassoCopiesPoints(t *testing.T) {
	s := NewStore()
	s.ClassPrompt = func() (string, bool) { return "7", true }

	src := NewPolygon(red)
	src.Append(NewPoint(100, 100))
	src.Append(NewPoint(300, 100))
	src.Append(NewPoint(300, 300))
	src.Append(NewPoint(100, 300))
	src.Closed = true
	s.SetPolygons([]*Polygon{src})

	// Band covering the top edge only
	color, ok := s.CaptureLasso(geometry.NewRect(50, 50, 300, 100), red)
	if !ok {
		t.Fatal("lasso capture failed")
	}
	if color == red {
		t.Fatal("capture must allocate a fresh color")
	}

	captured := s.Get(color)
	if captured == nil || !captured.Closed || captured.Len() != 2 {
		t.Fatalf("unexpected capture: %+v", captured)
	}
	if captured.ClassID != "7" {
		t.Errorf("ClassID = %q, want 7", captured.ClassID)
	}

	// Source untouched, and captured vertices are copies
	if src.Len() != 4 {
		t.Errorf("source shrank to %d vertices", src.Len())
	}
	for _, cp := range captured.Points {
		for _, sp := range src.Points {
			if cp == sp {
				t.Fatal("captured vertex shares identity with the source")
			}
		}
	}
}

func TestCaptureLassoNeedsTwoPoints(t *testing.T) {
	s := NewStore()
	src := NewPolygon(red)
	src.Append(NewPoint(0, 0))
	src.Append(NewPoint(500, 500))
	s.SetPolygons([]*Polygon{src})

	if _, ok := s.CaptureLasso(geometry.NewRect(-5, -5, 10, 10), red); ok {
		t.Error("one captured vertex must abort the lasso")
	}
	if s.Len() != 1 {
		t.Errorf("store holds %d polygons, want 1", s.Len())
	}
}

func TestPolygonsPreserveCreationOrder(t *testing.T) {
	s := NewStore()
	s.CreateOrAppend(0, 0, "#FFFF00")
	s.CreateOrAppend(0, 0, "#FF0000")
	s.CreateOrAppend(0, 0, "#00FF00")

	polys := s.Polygons()
	want := []string{"#FFFF00", "#FF0000", "#00FF00"}
	for i, p := range polys {
		if p.Color != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, p.Color, want[i])
		}
	}
}

func TestFirstUnusedColor(t *testing.T) {
	used := map[string]*Polygon{}
	for _, c := range Palette {
		used[c] = NewPolygon(c)
	}
	if _, ok := FirstUnusedColor(used); ok {
		t.Error("exhausted palette should report no color")
	}

	delete(used, Palette[2])
	c, ok := FirstUnusedColor(used)
	if !ok || c != Palette[2] {
		t.Errorf("FirstUnusedColor = %q, want %q", c, Palette[2])
	}
}

func TestColorForIndexUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 40; i++ {
		c := ColorForIndex(i)
		if seen[c] {
			t.Fatalf("duplicate color %q at index %d", c, i)
		}
		seen[c] = true
	}
}
