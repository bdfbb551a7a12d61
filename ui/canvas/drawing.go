package canvas

import (
	"image"
	"image/color"
	"strconv"
)

const vertexHalfSize = 3

// drawPolygons renders every polygon: edges first, then vertex handles on
// top so they stay grabbable at any zoom.
func (ac *AnnotationCanvas) drawPolygons(output *image.RGBA) {
	view := ac.state.View
	for _, poly := range ac.state.Store.Polygons() {
		c := parseHexColor(poly.Color)

		for i := 0; i < poly.SegmentCount(); i++ {
			a, b := poly.Segment(i)
			ax, ay := view.ToViewport(a.X, a.Y)
			bx, by := view.ToViewport(b.X, b.Y)
			drawLine(output, int(ax), int(ay), int(bx), int(by), c)
		}

		for _, pt := range poly.Points {
			vx, vy := view.ToViewport(pt.X, pt.Y)
			fillSquare(output, int(vx), int(vy), vertexHalfSize, c)
		}
	}
}

// parseHexColor decodes "#RRGGBB". Unparseable keys render white rather
// than dropping the polygon.
func parseHexColor(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}

// drawLine draws a 1px line with the integer Bresenham walk.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	bounds := img.Bounds()
	for {
		if image.Pt(x1, y1).In(bounds) {
			img.SetRGBA(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// fillSquare fills a (2*half+1)-sided square centered on (cx, cy).
func fillSquare(img *image.RGBA, cx, cy, half int, c color.RGBA) {
	bounds := img.Bounds()
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if image.Pt(x, y).In(bounds) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
