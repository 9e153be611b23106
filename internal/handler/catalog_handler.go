package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleveque/print-quote-service/internal/catalog"
)

// CatalogHandler serves the selectable options.
type CatalogHandler struct {
	catalog catalog.Catalog
}

func NewCatalogHandler(cat catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// Get returns papers, products and the border and passe-partout tiers.
// Route: GET /api/v1/catalog
func (h *CatalogHandler) Get(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.catalog)
}
