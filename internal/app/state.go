// Package app holds the session state shared by the UI: the loaded image,
// the polygon store, the view transform, and the event bus wiring them
// together.
package app

import (
	"fmt"
	"os"
	"sync"

	"ezlabel/internal/annotation"
	"ezlabel/internal/image"
	"ezlabel/internal/interaction"
	"ezlabel/internal/label"
	"ezlabel/internal/viewport"
)

// State is the application session: one image, one label file, one set of
// polygons.
type State struct {
	mu sync.RWMutex

	// Current image
	Layer *image.Layer

	// Label file backing the current polygons; empty until a save or load.
	LabelPath string
	Modified  bool

	// Annotation engine
	Store   *annotation.Store
	View    *viewport.State
	Machine *interaction.Machine

	listeners map[EventType][]EventListener
}

// EventType identifies application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventLabelsLoaded
	EventLabelsSaved
	EventPolygonsChanged
	EventZoomChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a session with an empty store and a unit view transform.
func NewState() *State {
	s := &State{
		Store:     annotation.NewStore(),
		View:      viewport.New(),
		listeners: make(map[EventType][]EventListener),
	}
	s.Machine = interaction.NewMachine(s.View, s.Store)

	s.Store.OnChange = func() {
		s.SetModified(true)
		s.Emit(EventPolygonsChanged, nil)
	}
	s.Machine.OnZoom = func(percent int) {
		s.Emit(EventZoomChanged, percent)
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadImage replaces the current image. Polygon coordinates are relative to
// the image they were drawn on, so the collection is destroyed and the view
// resets to 1:1.
func (s *State) LoadImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}

	s.Store.ClearAll()

	s.mu.Lock()
	s.Layer = layer
	s.LabelPath = ""
	s.Modified = false
	s.View.Reset(float64(layer.Width()), float64(layer.Height()))
	s.mu.Unlock()

	s.Emit(EventImageLoaded, layer)
	s.Emit(EventZoomChanged, s.View.ZoomPercent())
	return nil
}

// OpenImage loads the image at path and, when a label file sits next to it,
// the labels as well. Every image-open path goes through here so a fresh
// image and a restored session behave the same.
func (s *State) OpenImage(path string) error {
	if err := s.LoadImage(path); err != nil {
		return err
	}
	labelPath := s.LabelPathForImage()
	if _, err := os.Stat(labelPath); err != nil {
		return nil
	}
	return s.LoadLabels(labelPath)
}

// HasImage reports whether an image is loaded.
func (s *State) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Layer != nil
}

// SaveLabels writes the current polygons to path in YOLO segmentation
// format. Fails when no image is loaded, since normalization needs the
// image dimensions.
func (s *State) SaveLabels(path string) error {
	s.mu.RLock()
	layer := s.Layer
	s.mu.RUnlock()
	if layer == nil {
		return fmt.Errorf("no image loaded")
	}

	polys := s.Store.Polygons()
	if err := label.Save(path, polys, float64(layer.Width()), float64(layer.Height())); err != nil {
		return err
	}

	s.mu.Lock()
	s.LabelPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLabelsSaved, path)
	return nil
}

// LoadLabels reads a YOLO label file and replaces the current polygons.
// Fails when no image is loaded.
func (s *State) LoadLabels(path string) error {
	s.mu.RLock()
	layer := s.Layer
	s.mu.RUnlock()
	if layer == nil {
		return fmt.Errorf("no image loaded")
	}

	polys, err := label.Load(path, float64(layer.Width()), float64(layer.Height()))
	if err != nil {
		return err
	}

	s.Store.SetPolygons(polys)

	s.mu.Lock()
	s.LabelPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLabelsLoaded, path)
	return nil
}

// LabelPathForImage returns the default label path next to the loaded
// image, or "" when no image is loaded.
func (s *State) LabelPathForImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Layer == nil {
		return ""
	}
	return label.PathFor(s.Layer.Path)
}
