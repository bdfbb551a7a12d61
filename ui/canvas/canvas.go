// Package canvas provides the annotation canvas: the image with the
// polygon overlay, pannable and zoomable, feeding pointer events to the
// interaction machine.
package canvas

import (
	"image"
	"image/color"

	appstate "ezlabel/internal/app"
	"ezlabel/internal/interaction"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// AnnotationCanvas renders the loaded image under the polygon overlay and
// routes mouse input to the interaction machine.
type AnnotationCanvas struct {
	widget.BaseWidget

	state  *appstate.State
	raster *fynecanvas.Raster

	// Dragged fires per-delta in Fyne, not per-position. Track the live
	// pointer position from MouseDown plus accumulated drag deltas.
	pointerX float32
	pointerY float32
	dragging bool
}

var _ desktop.Mouseable = (*AnnotationCanvas)(nil)
var _ fyne.Draggable = (*AnnotationCanvas)(nil)
var _ fyne.DoubleTappable = (*AnnotationCanvas)(nil)
var _ fyne.Scrollable = (*AnnotationCanvas)(nil)

// New creates an annotation canvas over the given session.
func New(state *appstate.State) *AnnotationCanvas {
	ac := &AnnotationCanvas{state: state}
	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.ExtendBaseWidget(ac)
	return ac
}

// MouseDown forwards a button press to the machine.
func (ac *AnnotationCanvas) MouseDown(ev *desktop.MouseEvent) {
	ac.pointerX = ev.Position.X
	ac.pointerY = ev.Position.Y
	ac.dragging = true

	btn := interaction.ButtonPrimary
	if ev.Button == desktop.MouseButtonSecondary {
		btn = interaction.ButtonSecondary
	}
	ac.state.Machine.PointerDown(float64(ev.Position.X), float64(ev.Position.Y), btn)
	ac.Refresh()
}

// MouseUp ends the current gesture.
func (ac *AnnotationCanvas) MouseUp(ev *desktop.MouseEvent) {
	ac.dragging = false
	ac.state.Machine.PointerUp(float64(ev.Position.X), float64(ev.Position.Y))
	ac.Refresh()
}

// Dragged forwards pointer motion while a button is held.
func (ac *AnnotationCanvas) Dragged(ev *fyne.DragEvent) {
	if !ac.dragging {
		ac.pointerX = ev.Position.X
		ac.pointerY = ev.Position.Y
		ac.dragging = true
	} else {
		ac.pointerX = ev.Position.X
		ac.pointerY = ev.Position.Y
	}
	ac.state.Machine.PointerMove(float64(ac.pointerX), float64(ac.pointerY))
	ac.Refresh()
}

// DragEnd closes out a drag whose release Fyne reports without a position.
func (ac *AnnotationCanvas) DragEnd() {
	if !ac.dragging {
		return
	}
	ac.dragging = false
	ac.state.Machine.PointerUp(float64(ac.pointerX), float64(ac.pointerY))
	ac.Refresh()
}

// DoubleTapped closes an open polygon or inserts a vertex on an edge.
func (ac *AnnotationCanvas) DoubleTapped(ev *fyne.PointEvent) {
	ac.state.Machine.DoubleClick(float64(ev.Position.X), float64(ev.Position.Y))
	ac.Refresh()
}

// Tapped is required alongside DoubleTapped so Fyne delivers taps; single
// taps are already handled in MouseDown.
func (ac *AnnotationCanvas) Tapped(_ *fyne.PointEvent) {}

// Scrolled zooms at the pointer position.
func (ac *AnnotationCanvas) Scrolled(ev *fyne.ScrollEvent) {
	ac.state.Machine.Wheel(float64(ev.Position.X), float64(ev.Position.Y), float64(ev.Scrolled.DY))
	ac.Refresh()
}

// Refresh redraws the raster.
func (ac *AnnotationCanvas) Refresh() {
	ac.raster.Refresh()
	ac.BaseWidget.Refresh()
}

// FitImage fits the loaded image into the current widget size.
func (ac *AnnotationCanvas) FitImage() {
	size := ac.Size()
	ac.state.View.FitToViewport(float64(size.Width), float64(size.Height))
	ac.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &canvasRenderer{canvas: ac}
}

type canvasRenderer struct {
	canvas *AnnotationCanvas
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *canvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *canvasRenderer) Destroy() {}

// draw is the raster drawing function: black background, image blit under
// the view transform, then the annotation overlay.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	ac.blitImage(output)
	ac.drawPolygons(output)
	ac.drawTempPoint(output)
	ac.drawRubberBand(output)

	return output
}

// blitImage draws the image layer through the scale/offset transform.
func (ac *AnnotationCanvas) blitImage(output *image.RGBA) {
	layer := ac.state.Layer
	if layer == nil || layer.Image == nil || !layer.Visible {
		return
	}
	view := ac.state.View
	m := f64.Aff3{
		view.Scale, 0, view.OffsetX,
		0, view.Scale, view.OffsetY,
	}
	xdraw.ApproxBiLinear.Transform(output, m, layer.Image, layer.Image.Bounds(), xdraw.Over, nil)
}

// drawTempPoint marks the pending first corner of a two-click box.
func (ac *AnnotationCanvas) drawTempPoint(output *image.RGBA) {
	p, ok := ac.state.Machine.TempPoint()
	if !ok {
		return
	}
	vx, vy := ac.state.View.ToViewport(p.X, p.Y)
	fillSquare(output, int(vx), int(vy), vertexHalfSize+1, color.RGBA{R: 255, G: 165, A: 255})
}

// drawRubberBand outlines the active rect or lasso band.
func (ac *AnnotationCanvas) drawRubberBand(output *image.RGBA) {
	band, ok := ac.state.Machine.RubberBand()
	if !ok {
		return
	}
	c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	x1, y1 := int(band.X), int(band.Y)
	x2, y2 := int(band.X+band.Width), int(band.Y+band.Height)
	drawLine(output, x1, y1, x2, y1, c)
	drawLine(output, x2, y1, x2, y2, c)
	drawLine(output, x2, y2, x1, y2, c)
	drawLine(output, x1, y2, x1, y1, c)
}
