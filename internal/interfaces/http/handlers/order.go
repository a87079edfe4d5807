// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/app"
)

// OrderHandler serves the authenticated user's purchase history
type OrderHandler struct {
	app *app.App
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(a *app.App) *OrderHandler {
	return &OrderHandler{app: a}
}

// GetOrders lists the current user's orders, newest first
func (h *OrderHandler) GetOrders(c *gin.Context) {
	current := h.app.Sessions.Current()
	if current == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "not-authenticated", "message": "login required"})
		return
	}

	list, err := h.app.Orders.ListPurchases(c.Request.Context(), current.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "unknown", "message": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}
