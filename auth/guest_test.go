package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lojak57/baseform-api/models"
)

func newGuestTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GuestUser{}))
	return db
}

func TestCreateGuestUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db := newGuestTestDB(t)
	r := gin.New()
	r.POST("/auth/guest", CreateGuestUser(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GuestID       string `json:"guest_id"`
		CartNamespace string `json:"cart_namespace"`
		Token         string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.GuestID, "guest_"))
	assert.Equal(t, resp.GuestID, resp.CartNamespace, "guest id doubles as the cart namespace")

	// the token carries the guest's id and role
	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.GuestID, claims["user_id"])
	assert.Equal(t, "guest", claims["role"])

	var stored models.GuestUser
	require.NoError(t, db.First(&stored, "id = ?", resp.GuestID).Error)
	assert.WithinDuration(t, time.Now().Add(guestSessionTTL), stored.ExpiresAt, time.Minute)
}

func TestCreateGuestUserPrunesExpiredSessions(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db := newGuestTestDB(t)
	require.NoError(t, db.Create(&models.GuestUser{
		ID:        "guest_stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)

	r := gin.New()
	r.POST("/auth/guest", CreateGuestUser(db))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.GuestUser{}).Where("id = ?", "guest_stale").Count(&count).Error)
	assert.EqualValues(t, 0, count, "lapsed guest rows are dropped on the next issuance")
}
