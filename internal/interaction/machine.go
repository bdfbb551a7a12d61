// Package interaction turns pointer events into annotation edits. The
// machine consumes down/move/up/double-click/wheel events in viewport
// coordinates and drives the polygon store and the view transform.
package interaction

import (
	"ezlabel/internal/annotation"
	"ezlabel/internal/viewport"
	"ezlabel/pkg/geometry"
)

// Mode selects the drawing tool.
type Mode int

const (
	ModeBox       Mode = iota // Two-click bounding box
	ModeFree                  // Click-to-append polyline
	ModeRect                  // Press-drag-release rectangle
	ModeSelection             // Rubber-band lasso over existing vertices
)

func (m Mode) String() string {
	switch m {
	case ModeBox:
		return "box"
	case ModeFree:
		return "free"
	case ModeRect:
		return "rect"
	case ModeSelection:
		return "selection"
	}
	return "unknown"
}

// ModeFromString parses a mode name, defaulting to free.
func ModeFromString(s string) Mode {
	switch s {
	case "box":
		return ModeBox
	case "rect":
		return ModeRect
	case "selection":
		return ModeSelection
	default:
		return ModeFree
	}
}

// Button identifies the pointer button of a down event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// State is the machine's current gesture.
type State int

const (
	StateIdle State = iota
	StateDraggingPoint
	StatePanning
	StateDrawingBoxFirstPoint
	StateDraggingRect
	StateFreeBuilding
	StateLassoSelecting
)

const (
	// PointHitRadius is the viewport-pixel radius for grabbing a vertex.
	PointHitRadius = 20.0
	// DragSnapRadius is the image-space radius for merging a dragged
	// vertex onto another one.
	DragSnapRadius = 10.0
	// CloseClickRadius is the viewport-pixel radius for the double-click
	// gesture that closes an open polygon at its first vertex.
	CloseClickRadius = 20.0
	// SegmentInsertRadius is the viewport-pixel radius for the
	// double-click gesture that inserts a vertex on an edge.
	SegmentInsertRadius = 10.0
	// WheelZoomFactor is applied per wheel notch.
	WheelZoomFactor = 1.1
)

// Machine dispatches pointer events to per-mode handlers. All methods run
// on the UI event loop; nothing here is safe for concurrent use.
type Machine struct {
	view  *viewport.State
	store *annotation.Store

	mode           Mode
	activeColor    string
	continuousFree bool
	state          State

	dragged    *annotation.Point
	boxFirst   *geometry.Point2D // Image space, first click of box mode
	rectAnchor *geometry.Point2D // Image space, press position of rect mode
	rectFar    geometry.Point2D
	lassoFrom  geometry.Point2D // Viewport space
	lassoTo    geometry.Point2D
	panLast    geometry.Point2D

	// Collaborators. All optional; nil means the side effect is skipped.

	// ConfirmPointDelete asks before a vertex is removed; calling apply
	// performs the removal. Nil deletes immediately.
	ConfirmPointDelete func(apply func())
	ShowMagnifier      func(imageX, imageY float64)
	HideMagnifier      func()
	OnZoom             func(percent int)
	OnColorChange      func(color string)
	OnChange           func()
}

// NewMachine creates a machine over the given view and store, starting in
// free mode with the first palette color active.
func NewMachine(view *viewport.State, store *annotation.Store) *Machine {
	return &Machine{
		view:           view,
		store:          store,
		mode:           ModeFree,
		activeColor:    annotation.Palette[0],
		continuousFree: true,
	}
}

// State returns the current gesture state.
func (m *Machine) State() State {
	return m.state
}

// Mode returns the active drawing mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// SetMode switches the drawing mode, discarding any in-progress gesture so
// mid-draw state never leaks across a mode change.
func (m *Machine) SetMode(mode Mode) {
	m.mode = mode
	m.resetTransient()
	m.changed()
}

// ActiveColor returns the identity key new clicks operate on.
func (m *Machine) ActiveColor() string {
	return m.activeColor
}

// SetActiveColor changes which polygon subsequent clicks mutate. An open
// polygon under the previous color stays as it is.
func (m *Machine) SetActiveColor(color string) {
	if color == "" {
		return
	}
	m.activeColor = color
}

// ContinuousFree reports whether free mode allocates a fresh color after
// closing a polygon.
func (m *Machine) ContinuousFree() bool {
	return m.continuousFree
}

// SetContinuousFree toggles continuous free mode.
func (m *Machine) SetContinuousFree(v bool) {
	m.continuousFree = v
}

// PointerDown handles a button press at viewport position (vx, vy).
func (m *Machine) PointerDown(vx, vy float64, btn Button) {
	ix, iy := m.view.ToImage(vx, vy)

	if btn == ButtonSecondary {
		m.secondaryDown(vx, vy, ix, iy)
		return
	}

	// Dragging an existing vertex takes priority over every draw mode.
	if hit, ok := m.store.NearestPoint(ix, iy, PointHitRadius, m.view.Scale); ok {
		m.dragged = hit.Point
		m.state = StateDraggingPoint
		return
	}

	switch m.mode {
	case ModeSelection:
		m.lassoFrom = geometry.Point2D{X: vx, Y: vy}
		m.lassoTo = m.lassoFrom
		m.state = StateLassoSelecting

	case ModeBox:
		p := geometry.Point2D{X: ix, Y: iy}
		if m.boxFirst == nil {
			m.boxFirst = &p
			m.state = StateDrawingBoxFirstPoint
			m.changed()
		} else {
			m.store.CreateBox(*m.boxFirst, p, m.activeColor)
			m.boxFirst = nil
			m.state = StateIdle
		}

	case ModeRect:
		p := geometry.Point2D{X: ix, Y: iy}
		m.rectAnchor = &p
		m.rectFar = p
		m.state = StateDraggingRect

	case ModeFree:
		res := m.store.CreateOrAppend(ix, iy, m.activeColor)
		if res == annotation.AppendClosed {
			m.afterFreeClose()
			m.state = StateIdle
		} else if res != annotation.AppendIgnored {
			m.state = StateFreeBuilding
		}
	}
}

// secondaryDown deletes a vertex after confirmation, or starts panning.
func (m *Machine) secondaryDown(vx, vy, ix, iy float64) {
	if hit, ok := m.store.NearestPoint(ix, iy, PointHitRadius, m.view.Scale); ok {
		apply := func() { m.store.DeletePoint(hit.Color, hit.Index) }
		if m.ConfirmPointDelete != nil {
			m.ConfirmPointDelete(apply)
			return
		}
		apply()
		return
	}
	m.panLast = geometry.Point2D{X: vx, Y: vy}
	m.state = StatePanning
}

// PointerMove handles pointer motion at viewport position (vx, vy).
func (m *Machine) PointerMove(vx, vy float64) {
	switch m.state {
	case StateDraggingPoint:
		ix, iy := m.view.ToImage(vx, vy)
		ix, iy = m.view.ClampToImage(ix, iy)

		// Merge onto a nearby vertex to support shared corners.
		if snap, ok := m.store.SnapToOtherPoint(ix, iy, DragSnapRadius, m.dragged); ok {
			ix, iy = snap.X, snap.Y
		}
		m.dragged.MoveTo(ix, iy)

		if m.ShowMagnifier != nil {
			m.ShowMagnifier(ix, iy)
		}
		m.changed()

	case StatePanning:
		m.view.Pan(vx-m.panLast.X, vy-m.panLast.Y)
		m.panLast = geometry.Point2D{X: vx, Y: vy}
		m.changed()

	case StateDraggingRect:
		ix, iy := m.view.ToImage(vx, vy)
		m.rectFar = geometry.Point2D{X: ix, Y: iy}
		m.changed()

	case StateLassoSelecting:
		m.lassoTo = geometry.Point2D{X: vx, Y: vy}
		m.changed()
	}
}

// PointerUp ends the current gesture at viewport position (vx, vy).
func (m *Machine) PointerUp(vx, vy float64) {
	switch m.state {
	case StateDraggingPoint:
		m.dragged = nil
		if m.HideMagnifier != nil {
			m.HideMagnifier()
		}
		m.state = StateIdle
		m.changed()

	case StatePanning:
		m.state = StateIdle

	case StateDraggingRect:
		if m.rectAnchor != nil {
			ix, iy := m.view.ToImage(vx, vy)
			far := geometry.Point2D{X: ix, Y: iy}
			// Ignore zero-size drags; a stray click must not create a
			// degenerate box.
			if far.Distance(*m.rectAnchor)*m.view.Scale >= 2 {
				m.store.CreateBox(*m.rectAnchor, far, m.activeColor)
			}
		}
		m.rectAnchor = nil
		m.state = StateIdle
		m.changed()

	case StateLassoSelecting:
		m.lassoTo = geometry.Point2D{X: vx, Y: vy}
		band := geometry.RectFromCorners(m.lassoFrom, m.lassoTo)
		m.store.CaptureLasso(m.view.ImageRect(band), m.activeColor)
		m.state = StateIdle
		m.changed()
	}
}

// DoubleClick closes the open active-color polygon when near its first
// vertex, or inserts a vertex on the nearest edge of a closed one.
func (m *Machine) DoubleClick(vx, vy float64) {
	poly := m.store.Get(m.activeColor)
	if poly == nil || poly.Len() == 0 {
		return
	}
	ix, iy := m.view.ToImage(vx, vy)

	if !poly.Closed {
		first := poly.First()
		dist := first.Pos().Distance(geometry.Point2D{X: ix, Y: iy})
		if poly.Len() >= 2 && dist*m.view.Scale <= CloseClickRadius {
			if m.store.ClosePolygon(m.activeColor) {
				m.afterFreeClose()
			}
		}
		return
	}

	if hit, ok := m.store.NearestSegment(ix, iy, SegmentInsertRadius, m.view.Scale); ok {
		m.store.InsertPointOnSegment(hit.Color, hit.Index, hit.X, hit.Y)
	}
}

// Wheel zooms at the pointer position. Positive delta zooms in.
func (m *Machine) Wheel(vx, vy, delta float64) {
	factor := WheelZoomFactor
	if delta < 0 {
		factor = 1 / WheelZoomFactor
	}
	m.view.ZoomAtPivot(vx, vy, factor)
	if m.OnZoom != nil {
		m.OnZoom(m.view.ZoomPercent())
	}
	m.changed()
}

// TempPoint returns the pending first corner of a two-click box, in image
// space, for preview rendering.
func (m *Machine) TempPoint() (geometry.Point2D, bool) {
	if m.boxFirst == nil {
		return geometry.Point2D{}, false
	}
	return *m.boxFirst, true
}

// RubberBand returns the active rubber-band rectangle in viewport space,
// for either rect drawing or lasso selection.
func (m *Machine) RubberBand() (geometry.Rect, bool) {
	switch m.state {
	case StateDraggingRect:
		if m.rectAnchor == nil {
			return geometry.Rect{}, false
		}
		ax, ay := m.view.ToViewport(m.rectAnchor.X, m.rectAnchor.Y)
		fx, fy := m.view.ToViewport(m.rectFar.X, m.rectFar.Y)
		return geometry.RectFromCorners(geometry.Point2D{X: ax, Y: ay}, geometry.Point2D{X: fx, Y: fy}), true
	case StateLassoSelecting:
		return geometry.RectFromCorners(m.lassoFrom, m.lassoTo), true
	}
	return geometry.Rect{}, false
}

// afterFreeClose advances the active color after a free-mode closure when
// continuous mode is on, so drawing can carry straight on.
func (m *Machine) afterFreeClose() {
	if !m.continuousFree {
		return
	}
	if next, ok := annotation.FirstUnusedColor(m.store.UsedColors()); ok {
		m.activeColor = next
		if m.OnColorChange != nil {
			m.OnColorChange(next)
		}
	}
}

func (m *Machine) resetTransient() {
	m.dragged = nil
	m.boxFirst = nil
	m.rectAnchor = nil
	m.state = StateIdle
}

func (m *Machine) changed() {
	if m.OnChange != nil {
		m.OnChange()
	}
}
