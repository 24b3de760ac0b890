package orders

import (
	"net/http"

	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"
	"ticketly/internal/shared/utils/strictbind"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateCheckout(c *gin.Context)
	GetOrder(c *gin.Context)
	FinalizeOrder(c *gin.Context)
	PaymentWebhook(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := strictbind.JSON(c, &req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	checkout, err := ctrl.service.CreateCheckout(c.Request.Context(), middleware.SessionID(c), middleware.UserID(c), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Checkout created successfully", checkout, nil)
}

func (ctrl *controller) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid order ID", nil, err.Error())
		return
	}

	order, err := ctrl.service.GetOrder(c.Request.Context(), orderID, middleware.SessionID(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Order retrieved successfully", order, nil)
}

// FinalizeOrder completes a pending order directly, outside the webhook
// path. Used by integration setups without a payment provider callback.
func (ctrl *controller) FinalizeOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid order ID", nil, err.Error())
		return
	}

	if err := ctrl.service.FinalizeOrder(c.Request.Context(), orderID); err != nil {
		response.RespondError(c, err)
		return
	}

	order, err := ctrl.service.GetOrder(c.Request.Context(), orderID, middleware.SessionID(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Order finalized successfully", order, nil)
}

// PaymentWebhook receives provider callbacks. The raw body is needed for
// signature verification, so this endpoint never uses JSON binding.
func (ctrl *controller) PaymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to read webhook payload", nil, err.Error())
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := ctrl.service.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Webhook processed", nil, nil)
}
