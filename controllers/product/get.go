package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lojak57/baseform-api/store"
)

// GetProductByID returns a single product with its fabric variants.
// URL param: /products/:id (id or slug).
func GetProductByID(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		idOrSlug := c.Param("id")
		if idOrSlug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		list, err := products.GetAllProducts()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}
		for _, p := range list {
			if p.ID == idOrSlug || p.Slug == idOrSlug {
				c.JSON(http.StatusOK, p)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	}
}
