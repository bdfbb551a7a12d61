// Command labeldraw renders a YOLO label file onto its image for a quick
// visual check. It reads the sibling .txt label file, draws the polygon
// outlines and vertices, and writes a copy next to the original with a
// "-labeled" suffix.
//
// Usage: labeldraw [-out dir] <image>
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ezlabel/internal/annotation"
	ezimage "ezlabel/internal/image"
	"ezlabel/internal/label"

	"github.com/disintegration/imaging"
)

func main() {
	outDir := flag.String("out", "", "Output directory (default: next to each image)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: labeldraw [-out dir] <image>")
		os.Exit(1)
	}

	path := flag.Arg(0)
	if err := renderOne(path, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		os.Exit(1)
	}
}

func renderOne(imagePath, outDir string) error {
	if !ezimage.IsSupportedFormat(imagePath) {
		return fmt.Errorf("unsupported image format")
	}

	layer, err := ezimage.Load(imagePath)
	if err != nil {
		return err
	}

	labelPath := label.PathFor(imagePath)
	polys, err := label.Load(labelPath, float64(layer.Width()), float64(layer.Height()))
	if err != nil {
		return fmt.Errorf("failed to read labels: %w", err)
	}
	if len(polys) == 0 {
		return fmt.Errorf("no labels in %s", labelPath)
	}

	out := image.NewRGBA(layer.Image.Bounds())
	draw.Draw(out, out.Bounds(), layer.Image, layer.Image.Bounds().Min, draw.Src)
	drawPolygons(out, polys)

	dest := outputPath(imagePath, outDir)
	if err := imaging.Save(out, dest); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	fmt.Printf("%s: %d polygons -> %s\n", imagePath, len(polys), dest)
	return nil
}

// outputPath appends a -labeled suffix, optionally redirecting to outDir.
func outputPath(imagePath, outDir string) string {
	dir := filepath.Dir(imagePath)
	if outDir != "" {
		dir = outDir
	}
	base := filepath.Base(imagePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+"-labeled"+ext)
}

func drawPolygons(out *image.RGBA, polys []*annotation.Polygon) {
	for _, poly := range polys {
		c := parseHexColor(poly.Color)
		for i := 0; i < poly.SegmentCount(); i++ {
			a, b := poly.Segment(i)
			drawLine(out, int(a.X), int(a.Y), int(b.X), int(b.Y), c)
		}
		for _, pt := range poly.Points {
			fillSquare(out, int(pt.X), int(pt.Y), 3, c)
		}
	}
}

func parseHexColor(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

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
