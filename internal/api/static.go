package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// spa serves built frontend assets and falls back to index.html for client
// routes. Unknown /api paths get a JSON 404.
func (h *Handlers) spa(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/api" || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if h.FrontendDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	clean := filepath.Clean("/" + filepath.FromSlash(path))
	asset := filepath.Join(h.FrontendDir, clean)
	if info, err := os.Stat(asset); err == nil && !info.IsDir() {
		c.File(asset)
		return
	}
	index := filepath.Join(h.FrontendDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Frontend not built"})
		return
	}
	c.File(index)
}
