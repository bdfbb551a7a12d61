package label

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ezlabel/internal/annotation"
)

// PathFor returns the label file path paired with an image: same directory,
// same basename, .txt extension.
func PathFor(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + ".txt"
}

// Save writes the polygons to a label file at path.
func Save(path string, polys []*annotation.Polygon, imageWidth, imageHeight float64) error {
	text := Serialize(polys, imageWidth, imageHeight)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing labels: %w", err)
	}
	return nil
}

// Load reads a label file and returns its polygons scaled to the given
// image size.
func Load(path string, imageWidth, imageHeight float64) ([]*annotation.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening labels: %w", err)
	}
	defer f.Close()
	return Deserialize(f, imageWidth, imageHeight)
}
