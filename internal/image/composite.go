package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	textColor    = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	dividerColor = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
)

// ImageLoader is what the Builder needs from a Loader.
type ImageLoader interface {
	Load(ctx context.Context, src string) *Decoded
	LoadAll(ctx context.Context, srcs []string) []*Decoded
}

// Builder renders composites, bulk stacks and single-image copies to PNG.
// Each call owns its canvas; a Builder is safe for concurrent use.
type Builder struct {
	loader   ImageLoader
	layout   Layout
	fontFile string
	font     *opentype.Font
	encode   func(io.Writer, image.Image) error
	logger   *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLayout overrides DefaultLayout.
func WithLayout(l Layout) BuilderOption {
	return func(b *Builder) { b.layout = l }
}

// WithFontFile renders text with a TTF/OTF file instead of Go Regular.
func WithFontFile(path string) BuilderOption {
	return func(b *Builder) { b.fontFile = path }
}

// WithBuilderLogger sets the logger.
func WithBuilderLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder returns a Builder loading images through loader.
func NewBuilder(loader ImageLoader, opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		loader: loader,
		layout: DefaultLayout(),
		encode: encodePNG,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	f, err := loadFont(b.fontFile)
	if err != nil {
		return nil, err
	}
	b.font = f
	return b, nil
}

// Layout returns the builder's geometry.
func (b *Builder) Layout() Layout {
	return b.layout
}

func encodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

func loaded(decoded []*Decoded) []*Decoded {
	out := make([]*Decoded, 0, len(decoded))
	for _, d := range decoded {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Build renders up to MaxImages images as a grid with the text blocks
// stacked below it. Images that fail to load are dropped; the grid is laid
// out for the images that did load.
func (b *Builder) Build(ctx context.Context, req Request) (*Rendered, error) {
	if req.Empty() {
		return nil, ErrEmptyComposite
	}
	l := b.layout

	items := req.Images
	if len(items) > l.MaxImages {
		items = items[:l.MaxImages]
	}
	srcs := make([]string, len(items))
	for i, it := range items {
		srcs[i] = it.URL
	}
	images := loaded(b.loader.LoadAll(ctx, srcs))
	if len(images) == 0 && len(req.Texts) == 0 {
		return nil, ErrEmptyComposite
	}

	measure, err := newFace(b.font, l.FontSize)
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	defer measure.Close()

	wrapped := make([][]string, len(req.Texts))
	lineCounts := make([]int, len(req.Texts))
	for i, t := range req.Texts {
		wrapped[i] = wrapText(measure, t.Text, l.ContentWidth())
		lineCounts[i] = len(wrapped[i])
	}

	height := l.Height(len(images), lineCounts)
	canvas := imaging.New(l.px(l.Width), l.px(height), color.White)

	y := l.Padding
	if len(images) > 0 {
		cells, gridHeight := l.Grid(len(images), y)
		for i, d := range images {
			b.drawInCell(canvas, d, cells[i])
		}
		y += gridHeight + l.Padding
	}

	render, err := newFace(b.font, l.FontSize*float64(l.Scale))
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	defer render.Close()

	for i, lines := range wrapped {
		if i > 0 {
			b.drawDivider(canvas, y)
		}
		if i > 0 || len(images) > 0 {
			y += l.BlockGap
		}
		for _, line := range lines {
			b.drawLine(canvas, render, line, y)
			y += l.LineHeight
		}
		y += l.Padding
	}

	out, err := b.finish(canvas)
	if err != nil {
		return nil, err
	}
	out.ImagesRequested = len(srcs)
	out.ImagesLoaded = len(images)
	b.logger.Debug("composite rendered",
		zap.Int("images_requested", out.ImagesRequested),
		zap.Int("images_loaded", out.ImagesLoaded),
		zap.Int("texts", len(req.Texts)),
		zap.Int("width", out.Width),
		zap.Int("height", out.Height))
	return out, nil
}

func (b *Builder) drawInCell(canvas draw.Image, d *Decoded, cell Rect) {
	r := b.layout.pxRect(Fit(d.Width, d.Height, cell))
	scaled := imaging.Resize(d.Image, r.Dx(), r.Dy(), imaging.Lanczos)
	draw.Draw(canvas, r, scaled, image.Point{}, draw.Over)
}

// drawDivider draws a 1 logical pixel line across the canvas centered on y.
func (b *Builder) drawDivider(canvas draw.Image, y float64) {
	l := b.layout
	r := image.Rect(0, l.px(y-0.5), canvas.Bounds().Dx(), l.px(y+0.5))
	draw.Draw(canvas, r, image.NewUniform(dividerColor), image.Point{}, draw.Src)
}

// drawLine draws one text line whose top edge is at y.
func (b *Builder) drawLine(canvas draw.Image, face font.Face, line string, y float64) {
	l := b.layout
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(l.px(l.Padding), l.px(y+l.FontSize)),
	}
	d.DrawString(line)
}

// Stack renders every loadable image at natural size, top to bottom, on a
// transparent canvas as wide as the widest image. There is no count cap.
func (b *Builder) Stack(ctx context.Context, srcs []string) (*Rendered, error) {
	if len(srcs) == 0 {
		return nil, ErrNoImages
	}
	images := loaded(b.loader.LoadAll(ctx, srcs))
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: 0 of %d image(s)", ErrNoImagesLoaded, len(srcs))
	}

	width, height := 0, 0
	for _, d := range images {
		if d.Width > width {
			width = d.Width
		}
		height += d.Height
	}

	canvas := imaging.New(width, height, color.Transparent)
	y := 0
	for _, d := range images {
		r := image.Rect(0, y, d.Width, y+d.Height)
		draw.Draw(canvas, r, d.Image, d.Image.Bounds().Min, draw.Src)
		y += d.Height
	}

	out, err := b.finish(canvas)
	if err != nil {
		return nil, err
	}
	out.ImagesRequested = len(srcs)
	out.ImagesLoaded = len(images)
	return out, nil
}

// Single re-encodes one image as PNG at natural size.
func (b *Builder) Single(ctx context.Context, src string) (*Rendered, error) {
	if src == "" {
		return nil, ErrNoImages
	}
	d := b.loader.Load(ctx, src)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrImageUnavailable, src)
	}
	out, err := b.finish(d.Image)
	if err != nil {
		return nil, err
	}
	out.ImagesRequested = 1
	out.ImagesLoaded = 1
	return out, nil
}

func (b *Builder) finish(img image.Image) (*Rendered, error) {
	var buf bytes.Buffer
	if err := b.encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncodingFailed
	}
	bounds := img.Bounds()
	return &Rendered{Data: buf.Bytes(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
