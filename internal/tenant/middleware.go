// internal/tenant/middleware.go
package tenant

import (
	"github.com/gin-gonic/gin"
)

const contextKey = "tenant_resolution"

// Middleware resolves the active tenant for every request and stores the
// resolution in the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		resolution := Resolve(c.Request.Host, c.Query("tenant"))
		c.Set(contextKey, resolution)
		c.Next()
	}
}

// FromContext returns the tenant resolution attached by Middleware.
// Requests that somehow skip the middleware degrade to the portal tenant.
func FromContext(c *gin.Context) Resolution {
	if value, ok := c.Get(contextKey); ok {
		if resolution, ok := value.(Resolution); ok {
			return resolution
		}
	}
	cfg := Default()
	return Resolution{Tenant: cfg, TenantID: cfg.ID, Source: SourceFallback}
}
