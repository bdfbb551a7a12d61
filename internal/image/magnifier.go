package image

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

const (
	// MagnifierRegion is the side length, in image pixels, of the square
	// cropped around the point of interest.
	MagnifierRegion = 50
	// MagnifierFactor is the magnification applied to the cropped region.
	MagnifierFactor = 2.0
)

// MagnifiedRegion crops a MagnifierRegion square centered on (x, y),
// marks the point, and scales the result by MagnifierFactor. Used for the
// balloon zoom shown while dragging a vertex. Returns nil when the layer
// has no image.
func (l *Layer) MagnifiedRegion(x, y float64) image.Image {
	if l.Image == nil {
		return nil
	}

	half := MagnifierRegion / 2
	left := int(x) - half
	top := int(y) - half
	rect := image.Rect(left, top, left+MagnifierRegion, top+MagnifierRegion).
		Intersect(l.Image.Bounds())
	if rect.Empty() {
		return nil
	}

	region := imaging.Crop(l.Image, rect)

	// Mark the dragged point inside the crop.
	marked := image.NewNRGBA(region.Bounds())
	draw.Draw(marked, marked.Bounds(), region, region.Bounds().Min, draw.Src)
	drawDot(marked, int(x)-rect.Min.X, int(y)-rect.Min.Y, 3, color.NRGBA{R: 255, G: 255, B: 0, A: 255})

	w := int(float64(rect.Dx()) * MagnifierFactor)
	h := int(float64(rect.Dy()) * MagnifierFactor)
	if w < 1 || h < 1 {
		return nil
	}
	return imaging.Resize(marked, w, h, imaging.Lanczos)
}

// drawDot fills a small disc at (cx, cy).
func drawDot(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(cx+dx, cy+dy, c)
			}
		}
	}
}
