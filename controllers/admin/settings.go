package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/uploads"
)

// GET /admin/settings
func GetSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings []models.Setting
		if err := db.Find(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		out := make(map[string]string, len(settings))
		for _, s := range settings {
			out[s.Key] = s.Value
		}
		c.JSON(http.StatusOK, out)
	}
}

// PUT /admin/settings upserts the posted key/value pairs.
func UpdateSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input map[string]string
		if err := c.ShouldBindJSON(&input); err != nil || len(input) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for k, v := range input {
				setting := models.Setting{Key: k, Value: v}
				if err := tx.Save(&setting).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
	}
}

// POST /admin/settings/hero uploads the storefront hero image and stores
// its URL under the hero_image setting key.
func UploadHeroImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}

		url, err := uploads.Save(c, file, "site")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		setting := models.Setting{Key: "hero_image", Value: url}
		if err := db.Save(&setting).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store hero image setting"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"hero_image": url})
	}
}
