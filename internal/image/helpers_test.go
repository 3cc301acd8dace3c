package imagepkg

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// writePNG writes a w x h solid PNG into dir and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 0x20, G: 0x80, B: 0xc0, A: 0xff})
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

// fakeLoader serves decoded images from a map and counts calls.
type fakeLoader struct {
	images map[string]image.Image
	calls  atomic.Int32
}

func (f *fakeLoader) Load(_ context.Context, src string) *Decoded {
	f.calls.Add(1)
	img, ok := f.images[src]
	if !ok {
		return nil
	}
	b := img.Bounds()
	return &Decoded{Source: src, Image: img, Width: b.Dx(), Height: b.Dy()}
}

func (f *fakeLoader) LoadAll(ctx context.Context, srcs []string) []*Decoded {
	out := make([]*Decoded, len(srcs))
	for i, s := range srcs {
		out[i] = f.Load(ctx, s)
	}
	return out
}

func solid(w, h int) image.Image {
	return imaging.New(w, h, color.NRGBA{R: 0xff, A: 0xff})
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	f := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, os.WriteFile(f, data, 0o644))
	img, err := imaging.Open(f)
	require.NoError(t, err)
	return img
}
