package orders

import (
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(router *gin.RouterGroup, controller Controller) {
	orders := router.Group("/orders")
	{
		orders.POST("/checkout-intent", controller.CreateCheckout)  // POST /api/v1/orders/checkout-intent
		orders.GET("/:orderId", controller.GetOrder)                // GET /api/v1/orders/:orderId
		orders.POST("/:orderId/finalize", controller.FinalizeOrder) // POST /api/v1/orders/:orderId/finalize
	}

	payments := router.Group("/payments")
	{
		payments.POST("/webhook", controller.PaymentWebhook) // POST /api/v1/payments/webhook
	}
}
