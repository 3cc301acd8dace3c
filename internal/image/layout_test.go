package imagepkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrid(t *testing.T) {
	l := DefaultLayout()
	half := (l.ContentWidth() - l.GridGap) / 2 // 236

	tests := []struct {
		n          int
		wantCells  []Rect
		wantHeight float64
	}{
		{n: 0, wantCells: nil, wantHeight: 0},
		{n: 1, wantCells: []Rect{{20, 20, 480, 166}}, wantHeight: 166},
		{n: 2, wantCells: []Rect{{20, 20, half, 166}, {264, 20, half, 166}}, wantHeight: 166},
		{n: 3, wantCells: []Rect{
			{20, 20, half, 166}, {264, 20, half, 166}, {20, 194, half, 166},
		}, wantHeight: 340},
		{n: 4, wantCells: []Rect{
			{20, 20, half, 166}, {264, 20, half, 166}, {20, 194, half, 166}, {264, 194, half, 166},
		}, wantHeight: 340},
	}
	for _, tt := range tests {
		cells, h := l.Grid(tt.n, l.Padding)
		assert.Equal(t, tt.wantCells, cells, "n=%d", tt.n)
		assert.Equal(t, tt.wantHeight, h, "n=%d", tt.n)
	}

	t.Run("five behaves like four", func(t *testing.T) {
		five, h5 := l.Grid(5, l.Padding)
		four, h4 := l.Grid(4, l.Padding)
		assert.Equal(t, four, five)
		assert.Equal(t, h4, h5)
	})
}

func TestFit(t *testing.T) {
	cell := Rect{X: 20, Y: 20, W: 480, H: 166}

	t.Run("small images are not enlarged", func(t *testing.T) {
		r := Fit(100, 50, cell)
		assert.Equal(t, Rect{X: 210, Y: 78, W: 100, H: 50}, r)
	})

	t.Run("tall image limited by height", func(t *testing.T) {
		r := Fit(166, 332, cell)
		assert.InDelta(t, 83, r.W, 1e-9)
		assert.InDelta(t, 166, r.H, 1e-9)
		assert.InDelta(t, 20+(480-83)/2.0, r.X, 1e-9)
		assert.InDelta(t, 20, r.Y, 1e-9)
	})

	t.Run("wide image limited by width", func(t *testing.T) {
		r := Fit(960, 100, cell)
		assert.InDelta(t, 480, r.W, 1e-9)
		assert.InDelta(t, 50, r.H, 1e-9)
	})
}

func TestHeight(t *testing.T) {
	l := DefaultLayout()

	// padding*2 + grid + padding + (18+20) + gap + padding
	assert.Equal(t, 294.0, l.Height(1, []int{1}))
	// text only: first block has no gap, second has one
	assert.Equal(t, 40+38+56+10+20.0, l.Height(0, []int{1, 2}))
	// images only
	assert.Equal(t, 40+340+20+20.0, l.Height(4, nil))
	assert.Equal(t, 60.0, l.Height(0, nil))
}
