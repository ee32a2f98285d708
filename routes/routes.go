package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lojak57/baseform-api/checkout"
	"github.com/lojak57/baseform-api/controllers/realtime"
	wizardControllers "github.com/lojak57/baseform-api/controllers/wizard"
	"github.com/lojak57/baseform-api/mailer"
	"github.com/lojak57/baseform-api/store"
)

// Deps carries the shared stores and clients into the route groups.
type Deps struct {
	DB       *gorm.DB
	Products *store.ProductStore
	Carts    *store.CartManager
	State    *store.StateStore
	Gateway  *checkout.PaymentClient
	Mailer   mailer.Mailer
	Hub      *realtime.Hub
	Wizards  *wizardControllers.Sessions
}

// SetupRoutes is the single entry-point that wires up Auth, Storefront,
// Admin, Order, and Payment route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Public Auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// 2️⃣ Storefront routes (JWT-protected: user or guest session)
	SetupStorefrontRoutes(r, d)

	// 3️⃣ Admin routes (API-key-protected)
	SetupAdminRoutes(r, d)

	// order routes
	SetupOrderRoutes(r, d)

	// payment gateway routes
	SetupPaymentRoutes(r, d)
}
