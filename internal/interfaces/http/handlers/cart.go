// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/app"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/cart"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// CartHandler serves the active tenant's cart
type CartHandler struct {
	app *app.App
}

// NewCartHandler creates a new cart handler
func NewCartHandler(a *app.App) *CartHandler {
	return &CartHandler{app: a}
}

// AddItemRequest represents add to cart data
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest represents a quantity update
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest represents checkout data
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

func (h *CartHandler) manager(c *gin.Context) *cart.Manager {
	return h.app.CartFor(tenant.FromContext(c).TenantID)
}

// GetCart returns the cart with derived totals
func (h *CartHandler) GetCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK)
}

// AddItem adds a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad-request", "message": err.Error()})
		return
	}

	h.manager(c).AddItem(c.Request.Context(), req.ProductID, req.Quantity)
	h.respondCart(c, http.StatusOK)
}

// UpdateItem sets a line's quantity; zero or below removes the line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad-request", "message": err.Error()})
		return
	}

	h.manager(c).UpdateQuantity(c.Param("id"), req.Quantity)
	h.respondCart(c, http.StatusOK)
}

// RemoveItem deletes a line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.manager(c).RemoveItem(c.Param("id"))
	h.respondCart(c, http.StatusOK)
}

// IncrementItem raises a line's quantity by one
func (h *CartHandler) IncrementItem(c *gin.Context) {
	h.manager(c).IncrementItem(c.Param("id"))
	h.respondCart(c, http.StatusOK)
}

// DecrementItem lowers a line's quantity by one, never below one
func (h *CartHandler) DecrementItem(c *gin.Context) {
	h.manager(c).DecrementItem(c.Param("id"))
	h.respondCart(c, http.StatusOK)
}

// ClearCart removes every line
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.manager(c).Clear()
	h.respondCart(c, http.StatusOK)
}

// Checkout converts the cart into an order. A remote sync failure still
// leaves a durable local order record; that case answers 202 so the UI can
// flag "saved locally, will retry".
func (h *CartHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad-request", "message": err.Error()})
		return
	}

	order, err := h.manager(c).ProcessOrder(c.Request.Context(), cart.CheckoutExtra{
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		if errors.Is(err, cart.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "not-authenticated", "message": err.Error()})
			return
		}
		if order != nil {
			c.JSON(http.StatusAccepted, gin.H{
				"order":  order,
				"status": order.Status,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"code": "checkout-failed", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order, "status": order.Status})
}

func (h *CartHandler) respondCart(c *gin.Context, status int) {
	manager := h.manager(c)
	c.JSON(status, gin.H{
		"tenant_id":  tenant.FromContext(c).TenantID,
		"items":      manager.Lines(),
		"total":      manager.Total(),
		"item_count": manager.ItemCount(),
	})
}
