package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lojak57/baseform-api/models"
)

// guestSessionTTL bounds the guest row and its JWT together. The guest's
// cart namespace in the local store survives until login merges it into the
// user's namespace.
const guestSessionTTL = 24 * time.Hour

// CreateGuestUser issues an anonymous browsing session. The returned id is
// the guest's cart namespace; the client sends it back as guest_id at login
// so the cart carries over.
func CreateGuestUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guest := models.GuestUser{
			ID:        newGuestID(),
			ExpiresAt: time.Now().Add(guestSessionTTL),
		}
		if err := db.Create(&guest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest session"})
			return
		}

		// housekeeping: drop guest rows whose session has lapsed
		db.Where("expires_at < ?", time.Now()).Delete(&models.GuestUser{})

		token, err := issueGuestToken(guest)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":       guest.ID,
			"cart_namespace": guest.ID,
			"token":          token,
			"expires_at":     guest.ExpiresAt,
		})
	}
}

func newGuestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "guest_" + uuid.NewString()
	}
	return "guest_" + hex.EncodeToString(buf)
}

// issueGuestToken signs a session JWT whose expiry matches the guest row.
func issueGuestToken(guest models.GuestUser) (string, error) {
	claims := jwt.MapClaims{
		"user_id": guest.ID,
		"role":    "guest",
		"exp":     guest.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
