// Package label reads and writes YOLO text label files. Two line formats
// are recognized, distinguished purely by token count:
//
//	class cx cy w h                 bounding box (5 tokens, normalized)
//	class x1 y1 x2 y2 ... xN yN     segmentation (1+2N tokens, N >= 3)
//
// All coordinates are normalized to [0, 1] relative to the image size.
package label

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"ezlabel/internal/annotation"
)

// Normalize converts an image-pixel coordinate to the normalized [0, 1]
// range.
func Normalize(x, y, imageWidth, imageHeight float64) (float64, float64) {
	return x / imageWidth, y / imageHeight
}

// Denormalize converts a normalized coordinate back to image pixels.
func Denormalize(xn, yn, imageWidth, imageHeight float64) (float64, float64) {
	return xn * imageWidth, yn * imageHeight
}

// Serialize writes one segmentation-format line per polygon with at least
// three vertices, in the given order, with 6-decimal fixed precision.
// Rectangles export their four corners like any other polygon. Smaller
// polygons are skipped silently.
func Serialize(polys []*annotation.Polygon, imageWidth, imageHeight float64) string {
	var sb strings.Builder
	for _, poly := range polys {
		if poly.Len() < 3 {
			continue
		}
		cls := poly.ClassID
		if cls == "" {
			cls = "0"
		}
		sb.WriteString(cls)
		for _, pt := range poly.Points {
			xn, yn := Normalize(pt.X, pt.Y, imageWidth, imageHeight)
			fmt.Fprintf(&sb, " %.6f %.6f", xn, yn)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Deserialize parses label lines against the given image size. Lines that
// match neither format are skipped with a diagnostic; a bad line never
// aborts the rest of the file. Each imported polygon gets a color from the
// palette cycle so identity keys stay unique regardless of what was in use
// before the load.
func Deserialize(r io.Reader, imageWidth, imageHeight float64) ([]*annotation.Polygon, error) {
	var polys []*annotation.Polygon

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		poly, err := parseLine(line, imageWidth, imageHeight)
		if err != nil {
			log.Printf("label: skipping line %d: %v", lineNo, err)
			continue
		}
		poly.Color = annotation.ColorForIndex(len(polys))
		polys = append(polys, poly)
	}
	if err := scanner.Err(); err != nil {
		return polys, fmt.Errorf("reading labels: %w", err)
	}
	return polys, nil
}

// parseLine decodes a single label line into a closed polygon.
func parseLine(line string, imageWidth, imageHeight float64) (*annotation.Polygon, error) {
	tokens := strings.Fields(line)

	switch {
	case len(tokens) == 5:
		return parseBox(tokens, imageWidth, imageHeight)
	case len(tokens) >= 7 && len(tokens)%2 == 1:
		return parseSegmentation(tokens, imageWidth, imageHeight)
	default:
		return nil, fmt.Errorf("unrecognized token count %d", len(tokens))
	}
}

// parseBox reconstructs a "class cx cy w h" line as an axis-aligned
// 4-vertex closed polygon, corners clockwise from top-left.
func parseBox(tokens []string, imageWidth, imageHeight float64) (*annotation.Polygon, error) {
	vals := make([]float64, 4)
	for i, tok := range tokens[1:] {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", tok)
		}
		vals[i] = v
	}

	cx, cy := Denormalize(vals[0], vals[1], imageWidth, imageHeight)
	w := vals[2] * imageWidth
	h := vals[3] * imageHeight

	poly := annotation.NewPolygon("")
	poly.Append(annotation.NewPoint(cx-w/2, cy-h/2))
	poly.Append(annotation.NewPoint(cx+w/2, cy-h/2))
	poly.Append(annotation.NewPoint(cx+w/2, cy+h/2))
	poly.Append(annotation.NewPoint(cx-w/2, cy+h/2))
	poly.Closed = true
	poly.ClassID = normalizeClassID(tokens[0])
	return poly, nil
}

// parseSegmentation reconstructs a "class x1 y1 ... xN yN" line.
func parseSegmentation(tokens []string, imageWidth, imageHeight float64) (*annotation.Polygon, error) {
	poly := annotation.NewPolygon("")
	for i := 1; i < len(tokens); i += 2 {
		xn, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", tokens[i])
		}
		yn, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", tokens[i+1])
		}
		x, y := Denormalize(xn, yn, imageWidth, imageHeight)
		poly.Append(annotation.NewPoint(x, y))
	}
	poly.Closed = true
	poly.ClassID = tokens[0]
	return poly, nil
}

// normalizeClassID strips a float-formatted class id ("3.0") down to its
// integer form, preserving non-numeric ids as-is.
func normalizeClassID(tok string) string {
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return strconv.Itoa(int(v))
	}
	return tok
}
