package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lojak57/baseform-api/store"
)

type AddItemInput struct {
	ProductID  string `json:"product_id" binding:"required"`
	FabricCode string `json:"fabric_code"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityInput struct {
	ProductID  string `json:"product_id" binding:"required"`
	FabricCode string `json:"fabric_code" binding:"required"`
	Quantity   int    `json:"quantity"`
}

// sessionNamespace resolves the cart owner from the JWT claims set by the
// auth middleware.
func sessionNamespace(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	ns, ok := v.(string)
	if !ok || ns == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return ns, true
}

// POST /cart
func AddToCart(carts *store.CartManager, products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := sessionNamespace(c)
		if !ok {
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product, found := products.ProductByID(input.ProductID)
		if !found {
			// Cache may be cold; force a fetch before giving up.
			if _, err := products.GetAllProducts(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
				return
			}
			if product, found = products.ProductByID(input.ProductID); !found {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
		}

		cart := carts.Cart(ns)
		if err := cart.AddToCart(product, input.Quantity, input.FabricCode); err != nil {
			status := http.StatusBadRequest
			if !errors.Is(err, store.ErrFabricRequired) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": cart.Items(),
			"total": cart.CartTotal(),
			"count": cart.CartCount(),
		})
	}
}

// PUT /cart
func UpdateQuantity(carts *store.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := sessionNamespace(c)
		if !ok {
			return
		}

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart := carts.Cart(ns)
		cart.UpdateQuantity(input.ProductID, input.FabricCode, input.Quantity)
		c.JSON(http.StatusOK, gin.H{
			"items": cart.Items(),
			"total": cart.CartTotal(),
			"count": cart.CartCount(),
		})
	}
}

// DELETE /cart/:product_id/:fabric_code
func RemoveFromCart(carts *store.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := sessionNamespace(c)
		if !ok {
			return
		}

		cart := carts.Cart(ns)
		cart.RemoveFromCart(c.Param("product_id"), c.Param("fabric_code"))
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed", "items": cart.Items()})
	}
}

// DELETE /cart
func ClearCart(carts *store.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := sessionNamespace(c)
		if !ok {
			return
		}
		carts.Cart(ns).ClearCart()
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /cart
func GetCart(carts *store.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := sessionNamespace(c)
		if !ok {
			return
		}
		cart := carts.Cart(ns)
		c.JSON(http.StatusOK, gin.H{
			"items": cart.Items(),
			"total": cart.CartTotal(),
			"count": cart.CartCount(),
		})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(carts *store.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		cart := carts.Cart(userID)
		c.JSON(http.StatusOK, cart.Items())
	}
}
