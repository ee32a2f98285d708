package routes

import (
	"github.com/gin-gonic/gin"

	checkoutControllers "github.com/lojak57/baseform-api/controllers/checkout"
	"github.com/lojak57/baseform-api/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	payment := r.Group("/payment")
	{
		// Return-page verification endpoint
		payment.GET("/verify", checkoutControllers.VerifyPayment(d.DB))

		// Webhook endpoint: middleware handles sandbox/prod verification
		payment.POST("/webhook",
			middleware.PaymentWebhookAuth(),
			checkoutControllers.PaymentWebhookHandler(d.DB, d.State, d.Carts, d.Mailer),
		)
	}
}
