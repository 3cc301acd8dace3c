package imagepkg

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T, images map[string]image.Image) (*Builder, *fakeLoader) {
	t.Helper()
	fl := &fakeLoader{images: images}
	b, err := NewBuilder(fl)
	require.NoError(t, err)
	return b, fl
}

func rgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("one valid one missing and a text block", func(t *testing.T) {
		b, _ := newTestBuilder(t, map[string]image.Image{"/images/a.jpg": solid(100, 50)})
		out, err := b.Build(ctx, Request{
			Images: []ImageItem{{URL: "/images/a.jpg"}, {URL: "/images/missing.jpg"}},
			Texts:  []TextItem{{Text: "Hello"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1040, out.Width)
		assert.Equal(t, 588, out.Height)
		assert.Equal(t, 2, out.ImagesRequested)
		assert.Equal(t, 1, out.ImagesLoaded)
		assert.True(t, out.Partial())

		img := decodePNG(t, out.Data)
		assert.Equal(t, image.Rect(0, 0, 1040, 588), img.Bounds())
		assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, rgba(img, 0, 0))
		// the single image is centered in a full-width cell
		assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, rgba(img, 520, 206))
		// no divider between grid and first text block
		assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, rgba(img, 10, 411))
	})

	t.Run("empty request never loads", func(t *testing.T) {
		b, fl := newTestBuilder(t, nil)
		_, err := b.Build(ctx, Request{})
		assert.ErrorIs(t, err, ErrEmptyComposite)
		assert.Zero(t, fl.calls.Load())
	})

	t.Run("all loads fail without text", func(t *testing.T) {
		b, _ := newTestBuilder(t, nil)
		_, err := b.Build(ctx, Request{Images: []ImageItem{{URL: "x"}, {URL: "y"}}})
		assert.ErrorIs(t, err, ErrEmptyComposite)
	})

	t.Run("all loads fail with text renders text only", func(t *testing.T) {
		b, _ := newTestBuilder(t, nil)
		out, err := b.Build(ctx, Request{
			Images: []ImageItem{{URL: "x"}},
			Texts:  []TextItem{{Text: "Hello"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1040, out.Width)
		assert.Equal(t, 2*98, out.Height)
		assert.Equal(t, 0, out.ImagesLoaded)
	})

	t.Run("divider between text blocks", func(t *testing.T) {
		b, _ := newTestBuilder(t, nil)
		out, err := b.Build(ctx, Request{Texts: []TextItem{{Text: "one"}, {Text: "two"}}})
		require.NoError(t, err)
		img := decodePNG(t, out.Data)
		assert.Equal(t, dividerColor, rgba(img, 10, 116))
		assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, rgba(img, 10, 20))
	})

	t.Run("images beyond four are ignored", func(t *testing.T) {
		images := map[string]image.Image{}
		var req Request
		for _, u := range []string{"1", "2", "3", "4", "5", "6"} {
			images[u] = solid(40, 40)
			req.Images = append(req.Images, ImageItem{URL: u})
		}
		b, fl := newTestBuilder(t, images)
		out, err := b.Build(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 4, out.ImagesRequested)
		assert.EqualValues(t, 4, fl.calls.Load())
		assert.Equal(t, 2*420, out.Height)
	})

	t.Run("identical inputs give identical output", func(t *testing.T) {
		b, _ := newTestBuilder(t, map[string]image.Image{"a": solid(300, 500), "b": solid(640, 80)})
		req := Request{
			Images: []ImageItem{{URL: "a"}, {URL: "b"}},
			Texts:  []TextItem{{Text: "Price step 1: 100 (A)"}, {Text: "note"}},
		}
		first, err := b.Build(ctx, req)
		require.NoError(t, err)
		second, err := b.Build(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first.Width, second.Width)
		assert.Equal(t, first.Height, second.Height)
		assert.Equal(t, first.Data, second.Data)
	})

	t.Run("encoder failure", func(t *testing.T) {
		b, _ := newTestBuilder(t, nil)
		b.encode = func(io.Writer, image.Image) error { return errors.New("disk on fire") }
		_, err := b.Build(ctx, Request{Texts: []TextItem{{Text: "x"}}})
		assert.ErrorIs(t, err, ErrEncodingFailed)
		assert.ErrorContains(t, err, "disk on fire")
	})
}

func TestStack(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(t, map[string]image.Image{"a": solid(100, 50), "b": solid(80, 30)})

	out, err := b.Stack(ctx, []string{"a", "missing", "b"})
	require.NoError(t, err)
	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 80, out.Height)
	assert.Equal(t, 3, out.ImagesRequested)
	assert.Equal(t, 2, out.ImagesLoaded)

	img := decodePNG(t, out.Data)
	assert.Equal(t, uint8(0xff), rgba(img, 10, 10).A)
	assert.Equal(t, uint8(0), rgba(img, 90, 60).A, "area beside a narrower image is transparent")

	_, err = b.Stack(ctx, nil)
	assert.ErrorIs(t, err, ErrNoImages)
	_, err = b.Stack(ctx, []string{"missing"})
	assert.ErrorIs(t, err, ErrNoImagesLoaded)
}

func TestSingle(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(t, map[string]image.Image{"a": solid(33, 21)})

	out, err := b.Single(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 33, out.Width)
	assert.Equal(t, 21, out.Height)
	assert.False(t, out.Partial())

	_, err = b.Single(ctx, "missing")
	assert.ErrorIs(t, err, ErrImageUnavailable)
}

func TestNewBuilderBadFont(t *testing.T) {
	_, err := NewBuilder(&fakeLoader{}, WithFontFile("/does/not/exist.ttf"))
	assert.Error(t, err)
}
