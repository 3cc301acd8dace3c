package imagepkg

import (
	"image"
	"math"
)

// Layout holds the composite geometry in logical pixels. The output raster
// is Scale times larger.
type Layout struct {
	Width          float64
	Padding        float64
	LineHeight     float64
	FontSize       float64
	ImageMaxHeight float64
	GridGap        float64
	BlockGap       float64
	Scale          int
	MaxImages      int
}

// DefaultLayout is 520 logical pixels wide, rendered at 2x.
func DefaultLayout() Layout {
	return Layout{
		Width:          520,
		Padding:        20,
		LineHeight:     18,
		FontSize:       14,
		ImageMaxHeight: 340,
		GridGap:        8,
		BlockGap:       10,
		Scale:          2,
		MaxImages:      4,
	}
}

// Rect is a logical-pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// ContentWidth is the canvas width minus horizontal padding.
func (l Layout) ContentWidth() float64 {
	return l.Width - 2*l.Padding
}

// Grid returns the cells for n images with the grid's top edge at top, and
// the grid height. One or two images share a single half-height row; three
// and four use a 2x2 grid, the fourth cell staying blank for three.
func (l Layout) Grid(n int, top float64) ([]Rect, float64) {
	if n > l.MaxImages {
		n = l.MaxImages
	}
	if n <= 0 {
		return nil, 0
	}

	gridWidth := l.ContentWidth()
	var cellW, cellH, gridHeight float64
	if n <= 2 {
		gridHeight = (l.ImageMaxHeight - l.GridGap) / 2
		cellH = gridHeight
		cellW = gridWidth
		if n == 2 {
			cellW = (gridWidth - l.GridGap) / 2
		}
	} else {
		gridHeight = l.ImageMaxHeight
		cellW = (gridWidth - l.GridGap) / 2
		cellH = (gridHeight - l.GridGap) / 2
	}

	left := l.Padding
	right := l.Padding + cellW + l.GridGap
	bottom := top + cellH + l.GridGap
	positions := [4][2]float64{
		{left, top},
		{right, top},
		{left, bottom},
		{right, bottom},
	}

	cells := make([]Rect, n)
	for i := range cells {
		cells[i] = Rect{X: positions[i][0], Y: positions[i][1], W: cellW, H: cellH}
	}
	return cells, gridHeight
}

// Fit scales a w x h image into cell, keeping its aspect ratio, never
// enlarging it, and centers it.
func Fit(w, h int, cell Rect) Rect {
	if w <= 0 || h <= 0 {
		return Rect{X: cell.X, Y: cell.Y}
	}
	scale := math.Min(math.Min(cell.W/float64(w), cell.H/float64(h)), 1)
	dw := float64(w) * scale
	dh := float64(h) * scale
	return Rect{
		X: cell.X + (cell.W-dw)/2,
		Y: cell.Y + (cell.H-dh)/2,
		W: dw,
		H: dh,
	}
}

// Height is the total logical canvas height for a grid of images and one
// text block per entry of lineCounts.
func (l Layout) Height(images int, lineCounts []int) float64 {
	h := 2 * l.Padding
	if images > 0 {
		_, gridHeight := l.Grid(images, 0)
		h += gridHeight + l.Padding
	}
	for _, n := range lineCounts {
		h += float64(n)*l.LineHeight + l.Padding
	}
	gaps := len(lineCounts)
	if images == 0 && gaps > 0 {
		gaps--
	}
	h += float64(gaps)*l.BlockGap + l.Padding
	return h
}

// px converts a logical coordinate to raster pixels.
func (l Layout) px(v float64) int {
	return int(math.Round(v * float64(l.Scale)))
}

// pxRect converts r to a raster rectangle of at least 1x1.
func (l Layout) pxRect(r Rect) image.Rectangle {
	x0, y0 := l.px(r.X), l.px(r.Y)
	w, h := l.px(r.W), l.px(r.H)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Rect(x0, y0, x0+w, y0+h)
}
