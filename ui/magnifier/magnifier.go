// Package magnifier shows a balloon popup with a zoomed crop around the
// vertex being dragged, so fine placement works even when zoomed out.
package magnifier

import (
	appstate "ezlabel/internal/app"
	"ezlabel/internal/image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Balloon floats the magnified crop above the canvas near the pointer.
type Balloon struct {
	win   fyne.Window
	state *appstate.State
	popup *widget.PopUp
	img   *fynecanvas.Image
}

// New creates a balloon bound to the window's overlay canvas.
func New(win fyne.Window, state *appstate.State) *Balloon {
	return &Balloon{win: win, state: state}
}

// Show updates the balloon with a crop around the image-space point and
// places it offset from the pointer so it never hides the vertex itself.
func (b *Balloon) Show(imageX, imageY float64) {
	layer := b.state.Layer
	if layer == nil {
		return
	}
	region := layer.MagnifiedRegion(imageX, imageY)
	if region == nil {
		b.Hide()
		return
	}

	if b.img == nil {
		b.img = fynecanvas.NewImageFromImage(region)
		b.img.FillMode = fynecanvas.ImageFillOriginal
		b.img.ScaleMode = fynecanvas.ImageScalePixels
		b.popup = widget.NewPopUp(b.img, b.win.Canvas())
	} else {
		b.img.Image = region
		b.img.Refresh()
	}

	vx, vy := b.state.View.ToViewport(imageX, imageY)
	side := float32(float64(image.MagnifierRegion) * image.MagnifierFactor)
	pos := fyne.NewPos(float32(vx)+20, float32(vy)-side-20)
	if pos.Y < 0 {
		pos.Y = float32(vy) + 20
	}
	b.popup.ShowAtPosition(pos)
}

// Hide removes the balloon.
func (b *Balloon) Hide() {
	if b.popup != nil {
		b.popup.Hide()
	}
}
