package imagepkg

import (
	"errors"
	"image"
)

var (
	// ErrEmptyComposite means there is nothing to render: no image loaded
	// and no text given.
	ErrEmptyComposite = errors.New("nothing to copy: add a photo and/or text items first")
	// ErrEncodingFailed wraps a PNG encoder failure.
	ErrEncodingFailed = errors.New("failed to create composite image")
	// ErrNoImages means a bulk copy was asked for zero images.
	ErrNoImages = errors.New("no images available to copy")
	// ErrNoImagesLoaded means every image of a bulk copy failed to load.
	ErrNoImagesLoaded = errors.New("failed to load any image")
	// ErrImageUnavailable means a single-image copy could not load its source.
	ErrImageUnavailable = errors.New("image file may not exist or cannot be loaded")
)

// ImageItem identifies a raster image by URL or path.
type ImageItem struct {
	URL   string `json:"url" yaml:"url"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// TextItem is a literal block of text.
type TextItem struct {
	Text  string `json:"text" yaml:"text"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Request is the input of a grid composite. Images past the layout's
// maximum are ignored.
type Request struct {
	Images []ImageItem `json:"images"`
	Texts  []TextItem  `json:"texts"`
}

// Empty reports whether the request carries neither images nor texts.
func (r Request) Empty() bool {
	return len(r.Images) == 0 && len(r.Texts) == 0
}

// Decoded is a successfully loaded bitmap.
type Decoded struct {
	Source string
	Image  image.Image
	Width  int
	Height int
}

// Rendered is an encoded PNG ready for delivery.
type Rendered struct {
	Data   []byte
	Width  int
	Height int

	ImagesRequested int
	ImagesLoaded    int
}

// Partial reports whether some requested images failed to load.
func (r *Rendered) Partial() bool {
	return r.ImagesLoaded < r.ImagesRequested
}
