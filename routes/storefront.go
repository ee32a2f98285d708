package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/lojak57/baseform-api/controllers/cart"
	checkoutControllers "github.com/lojak57/baseform-api/controllers/checkout"
	productControllers "github.com/lojak57/baseform-api/controllers/product"
	userControllers "github.com/lojak57/baseform-api/controllers/user"
	"github.com/lojak57/baseform-api/middleware"
)

// SetupStorefrontRoutes registers the shopper-facing endpoints. Requires a
// session JWT (user or guest).
func SetupStorefrontRoutes(r *gin.Engine, d Deps) {
	// ──────────────── Public browse ────────────────
	r.GET("/products", productControllers.GetProducts(d.Products))
	r.GET("/products/:id", productControllers.GetProductByID(d.Products))
	r.GET("/categories", productControllers.GetAllCategories(d.DB))
	r.GET("/categories/:id", productControllers.GetCategoryByID(d.DB))

	// websocket endpoint for catalog refreshes and toasts
	r.GET("/ws", d.Hub.HandleWS)

	shop := r.Group("/")
	shop.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		shop.GET("/user", userControllers.GetUser(d.DB))
		shop.PUT("/user", userControllers.UpdateUser(d.DB))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := shop.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(d.Carts))
			cartGroup.POST("", cartControllers.AddToCart(d.Carts, d.Products))
			cartGroup.PUT("", cartControllers.UpdateQuantity(d.Carts))
			cartGroup.DELETE("/:product_id/:fabric_code", cartControllers.RemoveFromCart(d.Carts))
			cartGroup.DELETE("", cartControllers.ClearCart(d.Carts))
		}

		// ──────────────── Checkout Flow ────────────────
		checkoutGroup := shop.Group("/checkout")
		{
			checkoutGroup.GET("", checkoutControllers.GetCheckoutState(d.State))
			checkoutGroup.POST("/customer", checkoutControllers.SetCustomerInfo(d.State))
			checkoutGroup.POST("/shipping", checkoutControllers.SetShipping(d.State))
			checkoutGroup.POST("/back", checkoutControllers.GoBack(d.State))
			checkoutGroup.POST("/pay", checkoutControllers.SubmitPayment(d.State, d.Carts, d.Gateway))
		}
	}
}
