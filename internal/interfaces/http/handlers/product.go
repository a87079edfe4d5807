// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/app"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/catalog"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// ProductHandler serves catalog reads
type ProductHandler struct {
	app *app.App
}

// NewProductHandler creates a new product handler
func NewProductHandler(a *app.App) *ProductHandler {
	return &ProductHandler{app: a}
}

// GetProducts lists products for the active tenant. Degraded availability
// is invisible here: fallback tiers answer with the same shape.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad-filter", "message": err.Error()})
		return
	}
	filter.TenantID = tenant.FromContext(c).TenantID

	result, err := h.app.Catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "unknown", "message": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SearchProducts searches the catalog by product name
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "query-required", "message": "q parameter is required"})
		return
	}

	result, err := h.app.Catalog.SearchProducts(c.Request.Context(), query, tenant.FromContext(c).TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "unknown", "message": "failed to search products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct returns a single product, 404 when absent
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad-id", "message": "product id must be numeric"})
		return
	}

	product, err := h.app.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "unknown", "message": "failed to load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": "not-found", "message": "product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}
