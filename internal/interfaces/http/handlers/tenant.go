// internal/interfaces/http/handlers/tenant.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// TenantHandler serves the resolved tenant for the current request
type TenantHandler struct{}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler() *TenantHandler {
	return &TenantHandler{}
}

// GetTenant returns the tenant resolution for this request
func (h *TenantHandler) GetTenant(c *gin.Context) {
	resolution := tenant.FromContext(c)

	c.JSON(http.StatusOK, gin.H{
		"tenant":         resolution.Tenant,
		"tenant_id":      resolution.TenantID,
		"source":         resolution.Source,
		"document_title": resolution.DocumentTitle(),
	})
}
