package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/lojak57/baseform-api/controllers/order"
	"github.com/lojak57/baseform-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateAPIKey)
	{
		orders.GET("", orderControllers.GetAllOrdersHandler(d.DB))
		orders.GET("/:orderRef", orderControllers.GetOrderByRefHandler(d.DB))
		orders.PUT("/:orderRef/status", orderControllers.UpdateOrderStatusHandler(d.DB))
		orders.PUT("/:orderRef/payment-status", orderControllers.UpdatePaymentStatusHandler(d.DB))
		orders.DELETE("/:orderRef", orderControllers.DeleteOrderHandler(d.DB))
	}
}
