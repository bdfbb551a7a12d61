// Package viewport models the mapping between image pixel space and the
// on-screen canvas: a zoom factor plus a pan offset.
package viewport

import (
	"math"

	"ezlabel/pkg/geometry"
)

const (
	// MinScale and MaxScale bound the zoom factor.
	MinScale = 0.1
	MaxScale = 10.0
)

// State holds the current view transform and the dimensions of the loaded
// image. All conversions are pure functions of this state.
type State struct {
	Scale   float64
	OffsetX float64
	OffsetY float64

	ImageWidth  float64
	ImageHeight float64
}

// New returns a State at 1:1 scale with no offset.
func New() *State {
	return &State{Scale: 1.0}
}

// Reset restores 1:1 scale and zero offset for a newly loaded image.
func (s *State) Reset(imageWidth, imageHeight float64) {
	s.Scale = 1.0
	s.OffsetX = 0
	s.OffsetY = 0
	s.ImageWidth = imageWidth
	s.ImageHeight = imageHeight
}

// ToImage converts viewport coordinates to image pixel coordinates.
func (s *State) ToImage(vx, vy float64) (float64, float64) {
	return (vx - s.OffsetX) / s.Scale, (vy - s.OffsetY) / s.Scale
}

// ToViewport converts image pixel coordinates to viewport coordinates.
func (s *State) ToViewport(ix, iy float64) (float64, float64) {
	return ix*s.Scale + s.OffsetX, iy*s.Scale + s.OffsetY
}

// ImagePoint converts a viewport position to an image-space point.
func (s *State) ImagePoint(vx, vy float64) geometry.Point2D {
	x, y := s.ToImage(vx, vy)
	return geometry.Point2D{X: x, Y: y}
}

// ImageRect converts a viewport-space rectangle to image space.
func (s *State) ImageRect(r geometry.Rect) geometry.Rect {
	x1, y1 := s.ToImage(r.X, r.Y)
	x2, y2 := s.ToImage(r.X+r.Width, r.Y+r.Height)
	return geometry.RectFromCorners(geometry.Point2D{X: x1, Y: y1}, geometry.Point2D{X: x2, Y: y2})
}

// SetScale sets the zoom factor, clamped to [MinScale, MaxScale].
func (s *State) SetScale(scale float64) {
	s.Scale = clampScale(scale)
}

// ZoomAtPivot multiplies the scale by factor while keeping the image point
// under the viewport pivot fixed. The resulting scale is clamped.
func (s *State) ZoomAtPivot(pivotX, pivotY, factor float64) {
	ix, iy := s.ToImage(pivotX, pivotY)
	s.Scale = clampScale(s.Scale * factor)

	// Solve offset so that (ix, iy) maps back onto the pivot.
	s.OffsetX = pivotX - ix*s.Scale
	s.OffsetY = pivotY - iy*s.Scale
}

// FitToViewport scales and centers the image inside a viewport of the given
// size.
func (s *State) FitToViewport(viewWidth, viewHeight float64) {
	if s.ImageWidth <= 0 || s.ImageHeight <= 0 || viewWidth <= 0 || viewHeight <= 0 {
		return
	}
	s.Scale = clampScale(math.Min(viewWidth/s.ImageWidth, viewHeight/s.ImageHeight))
	s.OffsetX = (viewWidth - s.ImageWidth*s.Scale) / 2
	s.OffsetY = (viewHeight - s.ImageHeight*s.Scale) / 2
}

// CenterAt sets the scale and centers the image in the given viewport size.
func (s *State) CenterAt(scale, viewWidth, viewHeight float64) {
	s.Scale = clampScale(scale)
	s.OffsetX = (viewWidth - s.ImageWidth*s.Scale) / 2
	s.OffsetY = (viewHeight - s.ImageHeight*s.Scale) / 2
}

// Pan shifts the view by a viewport-space delta.
func (s *State) Pan(dx, dy float64) {
	s.OffsetX += dx
	s.OffsetY += dy
}

// ClampToImage limits an image-space position to the image bounds.
func (s *State) ClampToImage(x, y float64) (float64, float64) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > s.ImageWidth {
		x = s.ImageWidth
	}
	if y > s.ImageHeight {
		y = s.ImageHeight
	}
	return x, y
}

// ZoomPercent reports the current zoom as a rounded integer percentage.
func (s *State) ZoomPercent() int {
	return int(math.Round(s.Scale * 100))
}

func clampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
