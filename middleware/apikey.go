package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ValidateAPIKey gates the back-office routes. Refuses everything when the
// key is unset rather than treating an empty header as a match.
func ValidateAPIKey(c *gin.Context) {
	expected := os.Getenv("ADMIN_API_KEY")
	if expected == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin API is not configured"})
		c.Abort()
		return
	}

	provided := c.GetHeader("X-API-KEY")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
		c.Abort()
		return
	}
	c.Next()
}
