package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lojak57/baseform-api/models"
)

// GetAllAdmins lists back-office accounts, pending registrations first so
// the approval queue is visible at the top.
func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Admin
		if err := db.Order("approved ASC, created_at DESC").Find(&admins).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}

		pending := 0
		for _, a := range admins {
			if !a.Approved {
				pending++
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"admins":        admins,
			"pending_count": pending,
		})
	}
}
