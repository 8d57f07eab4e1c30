package grid

import (
	"fmt"
	"image"
	_ "image/png" // office maps ship as PNG
	"io"
	"os"
)

// Classification thresholds. A tile needs a clear plurality of marker
// pixels to earn a special class; anything ambiguous stays Blocked so
// sprites never clip through scenery.
const (
	markerRatio = 0.30
	floorRatio  = 0.60

	sampleStep   = 2
	sampleBorder = 1
)

// Source produces a classified Grid. It exists so the simulation can be fed
// a hand-authored grid (tests, fixtures) instead of a raster asset.
type Source interface {
	Grid() (*Grid, error)
}

// ImageSource classifies a raster map file on demand.
type ImageSource struct {
	// Path is the raster map asset.
	Path string
	// TileSize is the tile edge length in pixels.
	TileSize int
}

// Grid implements Source.
func (s ImageSource) Grid() (*Grid, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open map asset: %w", err)
	}
	defer f.Close()
	return ClassifyReader(f, s.TileSize)
}

// ClassifyReader decodes a raster image and classifies it into a Grid.
func ClassifyReader(r io.Reader, tileSize int) (*Grid, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode map asset: %w", err)
	}
	return ClassifyImage(img, tileSize)
}

// ClassifyImage samples img on a tileSize pitch and assigns each tile a
// Class by color-bucket majority voting.
//
// Per tile it samples an interior sub-grid (every sampleStep pixels,
// skipping a sampleBorder edge) and counts strong-blue (work station),
// strong-green (door), strong-red (exit) and fully transparent (floor)
// pixels. Buckets are checked in descending class priority with a minimum
// ratio floor; tiles meeting no floor are Blocked.
//
// A nil, zero-size, or smaller-than-one-tile image is a configuration error.
func ClassifyImage(img image.Image, tileSize int) (*Grid, error) {
	if img == nil {
		return nil, fmt.Errorf("classify map: nil image")
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("classify map: invalid tile size %d", tileSize)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("classify map: zero-size image (%dx%d)", width, height)
	}
	rows, cols := height/tileSize, width/tileSize
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("classify map: image %dx%d smaller than one %dpx tile", width, height, tileSize)
	}

	classes := make([][]Class, rows)
	for r := 0; r < rows; r++ {
		classes[r] = make([]Class, cols)
		for c := 0; c < cols; c++ {
			classes[r][c] = classifyTile(img, bounds.Min.X+c*tileSize, bounds.Min.Y+r*tileSize, tileSize)
		}
	}
	return &Grid{rows: rows, cols: cols, tileSize: tileSize, classes: classes}, nil
}

func classifyTile(img image.Image, x0, y0, tileSize int) Class {
	var total, blue, green, red, clear int
	for dy := sampleBorder; dy < tileSize-sampleBorder; dy += sampleStep {
		for dx := sampleBorder; dx < tileSize-sampleBorder; dx += sampleStep {
			r, g, b, a := img.At(x0+dx, y0+dy).RGBA()
			total++
			switch {
			case a == 0:
				clear++
			case strongChannel(b, r, g):
				blue++
			case strongChannel(g, r, b):
				green++
			case strongChannel(r, g, b):
				red++
			}
		}
	}
	if total == 0 {
		return Blocked
	}

	n := float64(total)
	switch {
	case float64(red)/n > markerRatio:
		return Exit
	case float64(green)/n > markerRatio:
		return Door
	case float64(blue)/n > markerRatio:
		return WorkStation
	case float64(clear)/n > floorRatio:
		return Floor
	default:
		return Blocked
	}
}

// strongChannel reports whether channel v clearly dominates the other two.
// Values are 16-bit as returned by color.Color.RGBA.
func strongChannel(v, o1, o2 uint32) bool {
	const floor = 0x6000  // channel must be reasonably bright
	const margin = 0x3000 // and clearly above the others
	return v > floor && v > o1+margin && v > o2+margin
}
