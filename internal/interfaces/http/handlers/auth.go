// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/app"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/session"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// AuthHandler serves login, registration and session state
type AuthHandler struct {
	app *app.App
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(a *app.App) *AuthHandler {
	return &AuthHandler{app: a}
}

// LoginRequest represents login data
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// Login authenticates against the current tenant
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad-request", "message": err.Error()})
		return
	}

	result := h.app.Sessions.Login(c.Request.Context(), req.Email, req.Password, tenant.FromContext(c).TenantID)
	respondAuth(c, result)
}

// Register creates an account for the current tenant and logs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad-request", "message": err.Error()})
		return
	}

	profile := session.Profile{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
	}

	result := h.app.Sessions.Register(c.Request.Context(), profile, tenant.FromContext(c).TenantID)
	respondAuth(c, result)
}

// Logout clears the session, unconditionally
func (h *AuthHandler) Logout(c *gin.Context) {
	h.app.Sessions.Logout()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetSession returns the current session, or 204 when anonymous
func (h *AuthHandler) GetSession(c *gin.Context) {
	current := h.app.Sessions.Current()
	if current == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":        current.Email,
		"profile":      current.Profile,
		"display_name": current.DisplayName(),
	})
}

// respondAuth maps a session result to an HTTP response
func respondAuth(c *gin.Context, result session.Result) {
	if result.OK {
		c.JSON(http.StatusOK, gin.H{
			"ok":           true,
			"email":        result.Session.Email,
			"profile":      result.Session.Profile,
			"display_name": result.Session.DisplayName(),
		})
		return
	}

	c.JSON(authStatus(result.Code), gin.H{"ok": false, "code": result.Code})
}

// authStatus maps machine-readable result codes to HTTP status codes
func authStatus(code string) int {
	switch code {
	case session.CodeNoUser, session.CodeBadPass:
		return http.StatusUnauthorized
	case session.CodeEmailExists:
		return http.StatusConflict
	case session.CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
