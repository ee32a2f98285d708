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

// CreateProduct creates a new product with images and optional fabric
// variants. Multipart form: name, description, price, category_id,
// has_fabric_selection, fabrics (JSON array), images (files), plus one
// optional swatch file per fabric named swatch_<code>.
func CreateProduct(products *store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		categoryID := c.PostForm("category_id")
		if name == "" || priceStr == "" || categoryID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, price, and category_id are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		hasFabrics, _ := strconv.ParseBool(c.PostForm("has_fabric_selection"))

		var fabrics []models.Fabric
		if raw := c.PostForm("fabrics"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &fabrics); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fabrics payload"})
				return
			}
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}

		var images []string
		for _, file := range form.File["images"] {
			url, err := uploads.Save(c, file, "products")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			images = append(images, url)
		}
		if len(images) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image is required"})
			return
		}

		// Per-fabric swatch uploads
		for i := range fabrics {
			if files := form.File["swatch_"+fabrics[i].Code]; len(files) > 0 {
				url, err := uploads.Save(c, files[0], "swatches")
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				fabrics[i].Swatch = url
			}
		}

		product := models.Product{
			ID:                 c.PostForm("id"),
			Slug:               c.PostForm("slug"),
			Name:               name,
			Description:        c.PostForm("description"),
			Price:              price,
			CategoryID:         categoryID,
			DefaultImages:      images,
			HasFabricSelection: hasFabrics,
			Fabrics:            fabrics,
		}

		if err := products.AddProduct(product); err != nil {
			switch {
			case errors.Is(err, store.ErrSlugTaken):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.Is(err, store.ErrUnknownCategory):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Product created"})
	}
}
