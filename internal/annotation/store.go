package annotation

import (
	"sort"

	"ezlabel/pkg/geometry"
)

// CloseRadius is the image-space distance within which a click on the first
// vertex closes an open polygon. It is intentionally zoom-independent.
const CloseRadius = 10.0

// AppendResult describes what CreateOrAppend did.
type AppendResult int

const (
	AppendIgnored AppendResult = iota // Polygon already closed, nothing changed
	AppendCreated                     // New polygon started
	AppendAdded                       // Vertex appended
	AppendClosed                      // Click near first vertex closed the polygon
)

// Store owns the polygon collection, keyed by color. At most one polygon
// exists per color key. Operations addressed to unknown keys are silent
// no-ops; UI races with stale colors are expected and must not crash the
// session.
type Store struct {
	polygons map[string]*Polygon
	order    []string // Creation order; preserved across save/load

	// ClassPrompt is invoked when a polygon is completed. A nil prompt or
	// a cancelled dialog yields class "0".
	ClassPrompt func() (string, bool)

	// AllocColor supplies a fresh identity key for lasso captures. Nil
	// falls back to the first unused palette entry.
	AllocColor func(used map[string]*Polygon) (string, bool)

	// OnChange fires after every mutating operation.
	OnChange func()
}

// NewStore creates an empty polygon store.
func NewStore() *Store {
	return &Store{polygons: make(map[string]*Polygon)}
}

// Get returns the polygon for the given color key, or nil.
func (s *Store) Get(color string) *Polygon {
	return s.polygons[color]
}

// Len returns the number of polygons.
func (s *Store) Len() int {
	return len(s.polygons)
}

// Polygons returns the polygons in creation order.
func (s *Store) Polygons() []*Polygon {
	out := make([]*Polygon, 0, len(s.order))
	for _, c := range s.order {
		if p, ok := s.polygons[c]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SortedKeys returns the color keys in lexicographic order. Hit-test
// queries iterate in this order so ties resolve deterministically.
func (s *Store) SortedKeys() []string {
	keys := make([]string, 0, len(s.polygons))
	for c := range s.polygons {
		keys = append(keys, c)
	}
	sort.Strings(keys)
	return keys
}

// UsedColors exposes the live collection for color allocation.
func (s *Store) UsedColors() map[string]*Polygon {
	return s.polygons
}

// CreateOrAppend starts a polygon for color at (x, y) if none exists, or
// appends to the open polygon of that color. A click within CloseRadius of
// the first vertex of a polygon with at least two vertices closes it
// instead; closure prompts for a class id.
func (s *Store) CreateOrAppend(x, y float64, color string) AppendResult {
	poly := s.polygons[color]
	if poly == nil {
		poly = NewPolygon(color)
		poly.Append(NewPoint(x, y))
		s.insert(poly)
		s.notify()
		return AppendCreated
	}

	if poly.Closed {
		return AppendIgnored
	}

	first := poly.First()
	if poly.Len() >= 2 && first.Pos().Distance(geometry.Point2D{X: x, Y: y}) < CloseRadius {
		s.close(poly)
		s.notify()
		return AppendClosed
	}

	poly.Append(NewPoint(x, y))
	s.notify()
	return AppendAdded
}

// ClosePolygon closes the open polygon for color if it has at least two
// vertices, prompting for a class id. Returns true if the polygon closed.
func (s *Store) ClosePolygon(color string) bool {
	poly := s.polygons[color]
	if poly == nil || poly.Closed || poly.Len() < 2 {
		return false
	}
	s.close(poly)
	s.notify()
	return true
}

// CreateBox builds a closed axis-aligned quadrilateral from two diagonal
// corners, replacing any polygon already held by the color key, and prompts
// for a class id. Corners run clockwise starting top-left.
func (s *Store) CreateBox(p1, p2 geometry.Point2D, color string) *Polygon {
	r := geometry.RectFromCorners(p1, p2)

	poly := NewPolygon(color)
	poly.Append(NewPoint(r.X, r.Y))
	poly.Append(NewPoint(r.X+r.Width, r.Y))
	poly.Append(NewPoint(r.X+r.Width, r.Y+r.Height))
	poly.Append(NewPoint(r.X, r.Y+r.Height))
	poly.Closed = true
	poly.ClassID = s.promptClass()

	s.replace(poly)
	s.notify()
	return poly
}

// DeletePoint removes the vertex at idx. A polygon left with fewer than two
// vertices is removed entirely.
func (s *Store) DeletePoint(color string, idx int) {
	poly := s.polygons[color]
	if poly == nil || idx < 0 || idx >= poly.Len() {
		return
	}
	poly.Points = append(poly.Points[:idx], poly.Points[idx+1:]...)
	if poly.Len() < 2 {
		s.remove(color)
	}
	s.notify()
}

// DeletePolygon removes the polygon for color.
func (s *Store) DeletePolygon(color string) {
	if _, ok := s.polygons[color]; !ok {
		return
	}
	s.remove(color)
	s.notify()
}

// InsertPointOnSegment inserts a vertex at (x, y) immediately after the
// vertex opening segment segIdx.
func (s *Store) InsertPointOnSegment(color string, segIdx int, x, y float64) {
	poly := s.polygons[color]
	if poly == nil || segIdx < 0 || segIdx >= poly.Len() {
		return
	}
	poly.InsertAfter(segIdx, NewPoint(x, y))
	s.notify()
}

// ReopenForEdit reopens a closed polygon for vertex appends. Label files
// written by older tools stored the first vertex again at the end to mark
// closure; any such duplicate is stripped here so it cannot accumulate.
func (s *Store) ReopenForEdit(color string) {
	poly := s.polygons[color]
	if poly == nil || !poly.Closed {
		return
	}
	if poly.Len() >= 2 && poly.First().Equals(poly.Last()) {
		poly.Points = poly.Points[:poly.Len()-1]
	}
	poly.Closed = false
	s.notify()
}

// SetPolygons replaces the whole collection, e.g. after loading a label
// file. Creation order follows the slice order.
func (s *Store) SetPolygons(polys []*Polygon) {
	s.polygons = make(map[string]*Polygon, len(polys))
	s.order = s.order[:0]
	for _, p := range polys {
		s.insert(p)
	}
	s.notify()
}

// ClearAll empties the collection.
func (s *Store) ClearAll() {
	s.polygons = make(map[string]*Polygon)
	s.order = nil
	s.notify()
}

// CaptureLasso copies every vertex of the source-color polygon that lies
// inside rect into a brand-new closed polygon under a freshly allocated
// color. The source polygon is left untouched. Fewer than two captured
// vertices aborts with no effect. Returns the new color key.
func (s *Store) CaptureLasso(rect geometry.Rect, sourceColor string) (string, bool) {
	src := s.polygons[sourceColor]
	if src == nil {
		return "", false
	}

	var captured []geometry.Point2D
	for _, pt := range src.Points {
		if rect.Contains(pt.Pos()) {
			captured = append(captured, pt.Pos())
		}
	}
	if len(captured) < 2 {
		return "", false
	}

	color, ok := s.allocColor()
	if !ok {
		return "", false
	}

	// Order the captured vertices into a coherent boundary.
	geometry.SortAngular(captured)

	poly := NewPolygon(color)
	for _, v := range captured {
		poly.Append(NewPoint(v.X, v.Y))
	}
	poly.Closed = true
	poly.ClassID = s.promptClass()

	s.insert(poly)
	s.notify()
	return color, true
}

// close marks the polygon closed and assigns its class. The wrap edge is
// derived from Closed; no duplicate vertex is stored.
func (s *Store) close(poly *Polygon) {
	poly.Closed = true
	poly.ClassID = s.promptClass()
}

func (s *Store) promptClass() string {
	if s.ClassPrompt == nil {
		return "0"
	}
	id, ok := s.ClassPrompt()
	if !ok || id == "" {
		return "0"
	}
	return id
}

func (s *Store) allocColor() (string, bool) {
	if s.AllocColor != nil {
		return s.AllocColor(s.polygons)
	}
	return FirstUnusedColor(s.polygons)
}

func (s *Store) insert(poly *Polygon) {
	if _, exists := s.polygons[poly.Color]; !exists {
		s.order = append(s.order, poly.Color)
	}
	s.polygons[poly.Color] = poly
}

func (s *Store) replace(poly *Polygon) {
	s.insert(poly)
}

func (s *Store) remove(color string) {
	delete(s.polygons, color)
	for i, c := range s.order {
		if c == color {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}
