package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lojak57/baseform-api/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/google-user", auth.GoogleUserLoginHandler(d.DB, d.Carts))
		authGroup.POST("/google-admin", auth.GoogleAdminLoginHandler(d.DB))
		authGroup.POST("/guest", auth.CreateGuestUser(d.DB))
	}
}
