// Package api serves the product catalog and the composite image endpoints.
package api

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/youruser/catalogapp/internal/clipboard"
	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/products"
)

const emptyCompositeMessage = "Nothing to copy. Add a photo and/or text items first."

// Deps are the collaborators the handlers need.
type Deps struct {
	Catalog     *products.Catalog
	StatusKey   string
	Builder     *imagepkg.Builder
	Overlays    *clipboard.OverlayStore
	ImagesDir   string
	ImagesURL   string // URL prefix the images are served under
	FrontendDir string
	Compress    imagepkg.CompressOptions
	Logger      *zap.Logger
}

// Handlers implements the HTTP API.
type Handlers struct {
	Deps
	compressing atomic.Bool
}

// New returns handlers for deps.
func New(deps Deps) *Handlers {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.ImagesURL == "" {
		deps.ImagesURL = "/images/"
	}
	return &Handlers{Deps: deps}
}
