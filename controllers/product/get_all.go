package productcontroller

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
)

// GetProducts serves the storefront catalog from the product store's cache,
// with optional search, category, and price filters applied over the
// snapshot.
func GetProducts(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.GetAllProducts()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		search := strings.ToLower(c.Query("search"))
		categoryID := c.Query("category_id")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))

		var minPrice, maxPrice float64
		var hasMin, hasMax bool
		if minPriceStr != "" {
			v, err := strconv.ParseFloat(minPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			minPrice, hasMin = v, true
		}
		if maxPriceStr != "" {
			v, err := strconv.ParseFloat(maxPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			maxPrice, hasMax = v, true
		}

		filtered := make([]models.Product, 0, len(list))
		for _, p := range list {
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Description), search) {
				continue
			}
			if categoryID != "" && p.CategoryID != categoryID {
				continue
			}
			if hasMin && p.Price < minPrice {
				continue
			}
			if hasMax && p.Price > maxPrice {
				continue
			}
			filtered = append(filtered, p)
		}

		sort.SliceStable(filtered, func(i, j int) bool {
			if sortOrder == "asc" {
				return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
			}
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})

		c.JSON(http.StatusOK, filtered)
	}
}
