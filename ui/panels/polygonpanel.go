// Package panels provides the side panel listing the current polygons.
package panels

import (
	"fmt"

	appstate "ezlabel/internal/app"
	"ezlabel/internal/annotation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PolygonPanel lists polygons with their class, vertex count, and state,
// with actions on the selected one.
type PolygonPanel struct {
	state *appstate.State

	list     *widget.List
	selected int // Index into rows, -1 when nothing selected
	rows     []*annotation.Polygon

	deleteBtn *widget.Button
	reopenBtn *widget.Button

	container fyne.CanvasObject

	// OnEdit is called with the color key of the selected polygon when the
	// user asks to edit it, so the window can make it the active color.
	OnEdit func(color string)
}

// NewPolygonPanel creates the panel and subscribes it to polygon changes.
func NewPolygonPanel(state *appstate.State) *PolygonPanel {
	p := &PolygonPanel{state: state, selected: -1}

	p.list = widget.NewList(
		func() int { return len(p.rows) },
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i < 0 || i >= len(p.rows) {
				return
			}
			poly := p.rows[i]
			status := "open"
			if poly.Closed {
				status = "closed"
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("%s  class %s  %d pts  %s",
				poly.Color, poly.ClassID, poly.Len(), status))
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		p.selected = i
		p.updateButtons()
	}
	p.list.OnUnselected = func(widget.ListItemID) {
		p.selected = -1
		p.updateButtons()
	}

	p.deleteBtn = widget.NewButton("Delete", p.onDelete)
	p.reopenBtn = widget.NewButton("Edit", p.onReopen)
	p.updateButtons()

	buttons := container.NewHBox(p.deleteBtn, p.reopenBtn)
	p.container = container.NewBorder(
		widget.NewLabel("Polygons"), // top
		buttons,                     // bottom
		nil, nil,
		p.list,
	)

	state.On(appstate.EventPolygonsChanged, func(interface{}) { p.Reload() })
	state.On(appstate.EventLabelsLoaded, func(interface{}) { p.Reload() })
	p.Reload()
	return p
}

// Container returns the panel for embedding in layouts.
func (p *PolygonPanel) Container() fyne.CanvasObject {
	return p.container
}

// Reload re-reads the store and refreshes the list.
func (p *PolygonPanel) Reload() {
	p.rows = p.state.Store.Polygons()
	if p.selected >= len(p.rows) {
		p.selected = -1
	}
	p.list.Refresh()
	p.updateButtons()
}

func (p *PolygonPanel) updateButtons() {
	if p.selected < 0 || p.selected >= len(p.rows) {
		p.deleteBtn.Disable()
		p.reopenBtn.Disable()
		return
	}
	p.deleteBtn.Enable()
	poly := p.rows[p.selected]
	if poly.Closed {
		p.reopenBtn.Enable()
	} else {
		p.reopenBtn.Disable()
	}
}

func (p *PolygonPanel) onDelete() {
	if p.selected < 0 || p.selected >= len(p.rows) {
		return
	}
	p.state.Store.DeletePolygon(p.rows[p.selected].Color)
}

func (p *PolygonPanel) onReopen() {
	if p.selected < 0 || p.selected >= len(p.rows) {
		return
	}
	poly := p.rows[p.selected]
	p.state.Store.ReopenForEdit(poly.Color)
	if p.OnEdit != nil {
		p.OnEdit(poly.Color)
	}
}
