package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

// compressImages starts a compression pass over the image directory and
// answers right away with the number of images found.
func (h *Handlers) compressImages(c *gin.Context) {
	paths, err := imagepkg.ListImages(h.ImagesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Images directory not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !h.compressing.CompareAndSwap(false, true) {
		c.JSON(http.StatusAccepted, gin.H{"message": "Image compression already running", "filesFound": len(paths)})
		return
	}

	go func() {
		defer h.compressing.Store(false)
		if _, err := imagepkg.CompressDir(h.ImagesDir, h.Compress, h.Logger); err != nil {
			h.Logger.Error("image compression failed", zap.Error(err))
		}
	}()
	c.JSON(http.StatusOK, gin.H{"message": "Image compression started", "filesFound": len(paths)})
}
