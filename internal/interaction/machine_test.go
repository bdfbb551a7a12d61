package interaction

import (
	"testing"

	"ezlabel/internal/annotation"
	"ezlabel/internal/viewport"
)

const red = "#FF0000"

func newTestMachine() (*Machine, *annotation.Store, *viewport.State) {
	view := viewport.New()
	view.Reset(1000, 800)
	store := annotation.NewStore()
	m := NewMachine(view, store)
	m.SetActiveColor(red)
	return m, store, view
}

func TestFreeModeBuildsAndClosesPolygon(t *testing.T) {
	m, store, view := newTestMachine()
	m.SetContinuousFree(false)

	m.PointerDown(100, 100, ButtonPrimary)
	m.PointerUp(100, 100)
	m.PointerDown(300, 100, ButtonPrimary)
	m.PointerUp(300, 100)
	m.PointerDown(200, 300, ButtonPrimary)
	m.PointerUp(200, 300)

	poly := store.Get(red)
	if poly == nil || poly.Len() != 3 || poly.Closed {
		t.Fatalf("unexpected polygon: %+v", poly)
	}

	// At high zoom the vertex grab radius shrinks below the closing
	// radius in image units, so a click near the first vertex closes.
	view.SetScale(4)
	m.PointerDown(4*107, 4*100, ButtonPrimary)
	if !poly.Closed {
		t.Error("polygon should be closed")
	}
	if poly.Len() != 3 {
		t.Errorf("closing click added a vertex: Len = %d", poly.Len())
	}
}

func TestPointDragHasPriorityAndClamps(t *testing.T) {
	m, store, _ := newTestMachine()
	store.CreateOrAppend(100, 100, red)
	store.CreateOrAppend(300, 100, red)
	dragged := store.Get(red).Points[0]

	// Press within the hit radius grabs the vertex even in free mode
	m.PointerDown(102, 101, ButtonPrimary)
	if m.State() != StateDraggingPoint {
		t.Fatalf("state = %v, want StateDraggingPoint", m.State())
	}
	if store.Get(red).Len() != 2 {
		t.Fatal("press on a vertex must not append a new one")
	}

	// Dragging past the image edge clamps to it
	m.PointerMove(-50, 100)
	if dragged.X != 0 || dragged.Y != 100 {
		t.Errorf("dragged to (%v, %v), want clamp to (0, 100)", dragged.X, dragged.Y)
	}

	m.PointerUp(-50, 100)
	if m.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle", m.State())
	}
}

func TestPointDragSnapsToNearbyVertex(t *testing.T) {
	m, store, _ := newTestMachine()
	store.CreateOrAppend(100, 100, red)
	store.CreateOrAppend(300, 100, red)
	dragged := store.Get(red).Points[0]

	m.PointerDown(100, 100, ButtonPrimary)
	// Within DragSnapRadius of the other vertex
	m.PointerMove(295, 102)
	if dragged.X != 300 || dragged.Y != 100 {
		t.Errorf("dragged to (%v, %v), want snap to (300, 100)", dragged.X, dragged.Y)
	}
}

func TestBoxModeTwoClicks(t *testing.T) {
	m, store, _ := newTestMachine()
	m.SetMode(ModeBox)

	m.PointerDown(100, 100, ButtonPrimary)
	if _, ok := m.TempPoint(); !ok {
		t.Fatal("first click should set the temp point")
	}
	if store.Len() != 0 {
		t.Fatal("no polygon before the second click")
	}

	m.PointerDown(300, 300, ButtonPrimary)
	poly := store.Get(red)
	if poly == nil || poly.Len() != 4 || !poly.Closed {
		t.Fatalf("unexpected box: %+v", poly)
	}
	if _, ok := m.TempPoint(); ok {
		t.Error("temp point should be cleared")
	}
}

func TestRectModeDragIgnoresTinyDrags(t *testing.T) {
	m, store, _ := newTestMachine()
	m.SetMode(ModeRect)

	m.PointerDown(100, 100, ButtonPrimary)
	m.PointerMove(100.5, 100.5)
	m.PointerUp(100.5, 100.5)
	if store.Len() != 0 {
		t.Fatal("sub-threshold drag must not create a box")
	}

	m.PointerDown(100, 100, ButtonPrimary)
	m.PointerMove(200, 250)
	m.PointerUp(200, 250)
	poly := store.Get(red)
	if poly == nil || poly.Len() != 4 {
		t.Fatalf("unexpected rect: %+v", poly)
	}
}

func TestSelectionModeLasso(t *testing.T) {
	m, store, _ := newTestMachine()

	src := annotation.NewPolygon(red)
	src.Append(annotation.NewPoint(100, 100))
	src.Append(annotation.NewPoint(300, 100))
	src.Append(annotation.NewPoint(300, 300))
	src.Append(annotation.NewPoint(100, 300))
	src.Closed = true
	store.SetPolygons([]*annotation.Polygon{src})

	m.SetMode(ModeSelection)
	m.PointerDown(50, 50, ButtonPrimary)
	m.PointerMove(350, 150)
	if _, ok := m.RubberBand(); !ok {
		t.Fatal("rubber band should be active during the lasso")
	}
	m.PointerUp(350, 150)

	if store.Len() != 2 {
		t.Fatalf("store holds %d polygons, want source plus capture", store.Len())
	}
}

func TestDoubleClickClosesOpenPolygon(t *testing.T) {
	m, store, view := newTestMachine()
	m.SetContinuousFree(false)
	store.CreateOrAppend(100, 100, red)
	store.CreateOrAppend(300, 100, red)
	store.CreateOrAppend(200, 300, red)

	// 15 image units from the first vertex; at scale 2 that is 30
	// viewport pixels, outside CloseClickRadius.
	view.Scale = 2
	m.DoubleClick(2*115, 2*100)
	if store.Get(red).Closed {
		t.Fatal("double click outside the radius must not close")
	}

	view.Scale = 1
	m.DoubleClick(115, 100)
	if !store.Get(red).Closed {
		t.Error("double click within the radius should close")
	}
}

func TestDoubleClickInsertsOnClosedPolygon(t *testing.T) {
	m, store, _ := newTestMachine()
	store.CreateOrAppend(100, 100, red)
	store.CreateOrAppend(300, 100, red)
	store.CreateOrAppend(200, 300, red)
	store.ClosePolygon(red)

	m.DoubleClick(200, 95)
	poly := store.Get(red)
	if poly.Len() != 4 {
		t.Fatalf("Len = %d, want 4 after insertion", poly.Len())
	}
	if poly.Points[1].X != 200 || poly.Points[1].Y != 100 {
		t.Errorf("inserted at (%v, %v), want (200, 100)", poly.Points[1].X, poly.Points[1].Y)
	}
}

func TestSecondaryClickDeletesPointOrPans(t *testing.T) {
	m, store, view := newTestMachine()
	store.CreateOrAppend(100, 100, red)
	store.CreateOrAppend(300, 100, red)

	m.PointerDown(102, 100, ButtonSecondary)
	if store.Get(red) != nil {
		t.Fatal("deleting one of two vertices removes the polygon")
	}

	// Away from any vertex the secondary button pans
	m.PointerDown(500, 500, ButtonSecondary)
	if m.State() != StatePanning {
		t.Fatalf("state = %v, want StatePanning", m.State())
	}
	m.PointerMove(520, 490)
	if view.OffsetX != 20 || view.OffsetY != -10 {
		t.Errorf("offset = (%v, %v), want (20, -10)", view.OffsetX, view.OffsetY)
	}
	m.PointerUp(520, 490)
}

func TestConfirmPointDeleteDefersToCallback(t *testing.T) {
	m, store, _ := newTestMachine()
	store.CreateOrAppend(100, 100, red)
	store.CreateOrAppend(300, 100, red)

	var pending func()
	m.ConfirmPointDelete = func(apply func()) { pending = apply }

	m.PointerDown(102, 100, ButtonSecondary)
	if pending == nil {
		t.Fatal("confirmation callback not invoked")
	}
	if store.Get(red) == nil || store.Get(red).Len() != 2 {
		t.Fatal("nothing may be deleted before the confirmation lands")
	}

	pending()
	if store.Get(red) != nil {
		t.Error("confirmed deletion of one of two vertices removes the polygon")
	}
}

func TestWheelZoomReportsPercent(t *testing.T) {
	m, _, view := newTestMachine()

	var percent int
	m.OnZoom = func(p int) { percent = p }

	m.Wheel(500, 400, 1)
	if percent != 110 {
		t.Errorf("percent = %d, want 110", percent)
	}
	m.Wheel(500, 400, -1)
	if view.ZoomPercent() != 100 {
		t.Errorf("zoom out did not return to 100%%: %d", view.ZoomPercent())
	}
}

func TestSetModeResetsTransientState(t *testing.T) {
	m, _, _ := newTestMachine()
	m.SetMode(ModeBox)
	m.PointerDown(100, 100, ButtonPrimary)
	if _, ok := m.TempPoint(); !ok {
		t.Fatal("expected a pending box corner")
	}

	m.SetMode(ModeFree)
	if _, ok := m.TempPoint(); ok {
		t.Error("mode change must discard the pending corner")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle", m.State())
	}
}

func TestContinuousFreeAdvancesColor(t *testing.T) {
	m, store, _ := newTestMachine()
	m.SetContinuousFree(true)

	var announced string
	m.OnColorChange = func(c string) { announced = c }

	m.PointerDown(100, 100, ButtonPrimary)
	m.PointerDown(300, 100, ButtonPrimary)
	m.PointerDown(200, 300, ButtonPrimary)
	m.DoubleClick(115, 100) // Close at the first vertex

	if !store.Get(red).Closed {
		t.Fatal("polygon should be closed")
	}
	next := m.ActiveColor()
	if next == red {
		t.Fatal("active color should advance after closure")
	}
	if announced != next {
		t.Errorf("OnColorChange announced %q, want %q", announced, next)
	}

	// Drawing continues immediately under the new color
	m.PointerDown(600, 600, ButtonPrimary)
	if store.Get(next) == nil {
		t.Error("next click should start a polygon under the new color")
	}
}
