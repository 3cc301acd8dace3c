package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API, overlay pages, images and the SPA.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.SetHTMLTemplate(overlayTemplate)

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/products", h.listProducts)
		api.GET("/products/search", h.searchProducts)
		api.GET("/products/statuses", h.listStatuses)
		api.GET("/products/:id/text", h.productText)
		api.GET("/qr", h.qr)
		api.POST("/composite", h.composite)
		api.POST("/composite/deliver", h.deliverComposite)
		api.POST("/single", h.single)
		api.POST("/bulk", h.bulk)
		api.POST("/compress-images", h.compressImages)
	}

	overlay := r.Group("/overlay")
	{
		overlay.GET("/:id", h.overlayPage)
		overlay.GET("/:id/image.png", h.overlayImage)
		overlay.POST("/:id/dismiss", h.dismissOverlay)
	}

	if h.ImagesDir != "" {
		r.Static(strings.TrimSuffix(h.ImagesURL, "/"), h.ImagesDir)
	}
	r.NoRoute(h.spa)
}
