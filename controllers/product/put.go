package productcontroller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
	"github.com/lojak57/baseform-api/uploads"
)

// UpdateProduct updates an existing product by ID. Accepts the same fields
// as CreateProduct; omitted fields keep their current value. The fabric set
// sent here replaces the stored set wholesale.
func UpdateProduct(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		existing, found := products.ProductByID(id)
		if !found {
			if _, err := products.GetAllProducts(); err == nil {
				existing, found = products.ProductByID(id)
			}
			if !found {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
		}
		product := *existing

		if v := c.PostForm("name"); v != "" {
			product.Name = v
		}
		if v := c.PostForm("description"); v != "" {
			product.Description = v
		}
		if v := c.PostForm("slug"); v != "" {
			product.Slug = v
		}
		if v := c.PostForm("category_id"); v != "" {
			product.CategoryID = v
		}
		if v := c.PostForm("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil || price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			product.Price = price
		}
		if v := c.PostForm("has_fabric_selection"); v != "" {
			hasFabrics, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid has_fabric_selection"})
				return
			}
			product.HasFabricSelection = hasFabrics
		}
		if raw := c.PostForm("fabrics"); raw != "" {
			var fabrics []models.Fabric
			if err := json.Unmarshal([]byte(raw), &fabrics); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fabrics payload"})
				return
			}
			product.Fabrics = fabrics
		}

		// Optional additional images append to the existing set.
		if form, err := c.MultipartForm(); err == nil {
			for _, file := range form.File["images"] {
				url, err := uploads.Save(c, file, "products")
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				product.DefaultImages = append(product.DefaultImages, url)
			}
		}

		if err := products.UpdateProduct(product); err != nil {
			if errors.Is(err, store.ErrUnknownCategory) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
	}
}
