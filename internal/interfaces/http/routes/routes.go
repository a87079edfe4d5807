// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/app"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/interfaces/http/handlers"
)

// SetupTenantRoutes sets up tenant resolution routes
func SetupTenantRoutes(rg *gin.RouterGroup, a *app.App) {
	tenantHandler := handlers.NewTenantHandler()
	rg.GET("/tenant", tenantHandler.GetTenant)
}

// SetupProductRoutes sets up catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, a *app.App) {
	productHandler := handlers.NewProductHandler(a)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/search", productHandler.SearchProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// SetupAuthRoutes sets up authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, a *app.App) {
	authHandler := handlers.NewAuthHandler(a)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/session", authHandler.GetSession)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, a *app.App) {
	cartHandler := handlers.NewCartHandler(a)

	carts := rg.Group("/cart")
	{
		carts.GET("", cartHandler.GetCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.POST("/items", cartHandler.AddItem)
		carts.PUT("/items/:id", cartHandler.UpdateItem)
		carts.DELETE("/items/:id", cartHandler.RemoveItem)
		carts.POST("/items/:id/increment", cartHandler.IncrementItem)
		carts.POST("/items/:id/decrement", cartHandler.DecrementItem)
		carts.POST("/checkout", cartHandler.Checkout)
	}
}

// SetupOrderRoutes sets up purchase history routes
func SetupOrderRoutes(rg *gin.RouterGroup, a *app.App) {
	orderHandler := handlers.NewOrderHandler(a)
	rg.GET("/orders", orderHandler.GetOrders)
}
