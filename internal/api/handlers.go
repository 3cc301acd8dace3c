package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/products"
)

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// loadProducts writes the error response itself and returns ok=false.
func (h *Handlers) loadProducts(c *gin.Context) ([]products.Product, bool) {
	items, err := h.Catalog.All()
	if err != nil {
		if errors.Is(err, products.ErrCatalogMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Products file not found"})
			return nil, false
		}
		h.Logger.Error("reading products", zap.String("path", h.Catalog.Path()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read products file", "details": err.Error()})
		return nil, false
	}
	return items, true
}

func (h *Handlers) listProducts(c *gin.Context) {
	items, ok := h.loadProducts(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handlers) searchProducts(c *gin.Context) {
	items, ok := h.loadProducts(c)
	if !ok {
		return
	}
	out := products.Filter(items, products.FilterOptions{
		Query:     c.Query("q"),
		Status:    c.Query("status"),
		StatusKey: h.StatusKey,
	})
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) listStatuses(c *gin.Context) {
	items, ok := h.loadProducts(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, products.Statuses(items, h.StatusKey))
}

func (h *Handlers) productText(c *gin.Context) {
	items, ok := h.loadProducts(c)
	if !ok {
		return
	}
	p, found := products.FindByID(items, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":   p.ID(),
		"name": products.Name(p),
		"text": products.FullText(p),
	})
}

// qr returns a PNG QR code for the "text" query param.
func (h *Handlers) qr(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := imagepkg.DefaultQRSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	b, err := imagepkg.ShareQR(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
