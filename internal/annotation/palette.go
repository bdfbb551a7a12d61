package annotation

import "fmt"

// Palette is the fixed set of color keys offered in the toolbar. Order
// matters: imported label files cycle through it, and lasso captures take
// the first entry not already in use.
var Palette = []string{
	"#FF0000",
	"#00FF00",
	"#0000FF",
	"#FFFF00",
	"#FF00FF",
	"#00FFFF",
	"#000000",
	"#FFFFFF",
}

// FirstUnusedColor returns the first palette entry not present in used.
func FirstUnusedColor(used map[string]*Polygon) (string, bool) {
	for _, c := range Palette {
		if _, taken := used[c]; !taken {
			return c, true
		}
	}
	return "", false
}

// ColorForIndex returns a deterministic color key for the i-th imported
// polygon: the palette in order, then synthesized keys once it is
// exhausted so identity uniqueness holds for arbitrarily large files.
func ColorForIndex(i int) string {
	if i < len(Palette) {
		return Palette[i]
	}
	// Spread synthetic hues across the RGB cube.
	n := i - len(Palette)
	r := (37 * (n + 1)) % 256
	g := (101 * (n + 1)) % 256
	b := (197 * (n + 1)) % 256
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
