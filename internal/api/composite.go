package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/catalogapp/internal/clipboard"
	imagepkg "github.com/youruser/catalogapp/internal/image"
)

type compositeRequest struct {
	imagepkg.Request
	Filename string `json:"filename"`
}

type bulkRequest struct {
	Images []string `json:"images"`
}

type singleRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// renderError maps builder errors onto responses.
func (h *Handlers) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, imagepkg.ErrEmptyComposite):
		c.JSON(http.StatusBadRequest, gin.H{"error": emptyCompositeMessage})
	case errors.Is(err, imagepkg.ErrNoImages):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, imagepkg.ErrNoImagesLoaded), errors.Is(err, imagepkg.ErrImageUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(499)
	default:
		h.Logger.Error("rendering image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func setCountHeaders(c *gin.Context, out *imagepkg.Rendered, note string) {
	c.Header("X-Images-Loaded", strconv.Itoa(out.ImagesLoaded))
	c.Header("X-Images-Requested", strconv.Itoa(out.ImagesRequested))
	if note != "" {
		c.Header("X-Copy-Note", note)
	}
}

// inlineNote is the note for a PNG the client copies itself.
func inlineNote(out *imagepkg.Rendered) string {
	return clipboard.Note(clipboard.Outcome{Method: clipboard.MethodNative}, out.ImagesLoaded, out.ImagesRequested)
}

// composite returns the rendered PNG inline so the browser can put it on
// its own clipboard.
func (h *Handlers) composite(c *gin.Context) {
	var req compositeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.Builder.Build(c.Request.Context(), req.Request)
	if err != nil {
		h.renderError(c, err)
		return
	}
	setCountHeaders(c, out, inlineNote(out))
	c.Data(http.StatusOK, "image/png", out.Data)
}

func (h *Handlers) single(c *gin.Context) {
	var req singleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.Builder.Single(c.Request.Context(), req.URL)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.deliver(c, out, orDefault(req.Filename, clipboard.SingleFilename))
}

func (h *Handlers) bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.Builder.Stack(c.Request.Context(), req.Images)
	if err != nil {
		h.renderError(c, err)
		return
	}
	setCountHeaders(c, out, inlineNote(out))
	c.Data(http.StatusOK, "image/png", out.Data)
}

// deliverComposite renders and runs the server side of the delivery chain:
// an overlay page for mobile clients, an attachment for everyone else.
func (h *Handlers) deliverComposite(c *gin.Context) {
	var req compositeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.Builder.Build(c.Request.Context(), req.Request)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.deliver(c, out, orDefault(req.Filename, clipboard.CompositeFilename))
}

func (h *Handlers) deliver(c *gin.Context, out *imagepkg.Rendered, filename string) {
	attachment := false
	download := clipboard.StepFunc{
		Name: clipboard.MethodDownload,
		Apply: func(context.Context, *imagepkg.Rendered, string) (string, error) {
			attachment = true
			return filename, nil
		},
	}
	var overlay clipboard.Step
	if h.Overlays != nil {
		overlay = clipboard.OverlayStep{Presenter: h.Overlays}
	}
	// The browser's clipboard is out of reach from here, so the chain only
	// has the steps the server can complete.
	chain := clipboard.NewChain(nil, nil, overlay, download, h.Logger)

	env := clipboard.EnvFromRequest(c.Request)
	outcome := chain.Deliver(c.Request.Context(), env, out, filename)
	if !outcome.OK() {
		h.Logger.Error("delivering image", zap.Error(outcome.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": outcome.Err.Error()})
		return
	}

	note := clipboard.Note(outcome, out.ImagesLoaded, out.ImagesRequested)
	setCountHeaders(c, out, note)
	if attachment {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filename)))
		c.Data(http.StatusOK, "image/png", out.Data)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"method":    outcome.Method,
		"location":  outcome.Location,
		"note":      note,
		"expiresIn": h.Overlays.TTL().Seconds(),
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
