package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// @Summary Start a checkout
// @Description Creates a payment intent for a plan. A coupon code is re-quoted on the server.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentIntentRequest true "Plan, amount and optional coupon"
// @Success 200 {object} dto.CreatePaymentIntentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /create-payment-intent [post]
// @Security BearerAuth
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req dto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
