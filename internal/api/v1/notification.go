package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *logger.Logger
}

func NewNotificationHandler(notificationService service.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// @Summary Send the signup welcome email
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body dto.WelcomeEmailRequest true "Recipient"
// @Success 200 {object} dto.SendEmailResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /send-signup-welcome [post]
func (h *NotificationHandler) SendSignupWelcome(c *gin.Context) {
	var req dto.WelcomeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.notificationService.SendSignupWelcome(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Send the profile completed email
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body dto.WelcomeEmailRequest true "Recipient"
// @Success 200 {object} dto.SendEmailResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /send-profile-welcome [post]
func (h *NotificationHandler) SendProfileWelcome(c *gin.Context) {
	var req dto.WelcomeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.notificationService.SendProfileWelcome(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Send a password reset email
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetEmailRequest true "Recipient and reset link"
// @Success 200 {object} dto.SendEmailResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /send-password-reset [post]
func (h *NotificationHandler) SendPasswordReset(c *gin.Context) {
	var req dto.PasswordResetEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.notificationService.SendPasswordReset(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Send a purchase receipt
// @Tags Emails
// @Accept json
// @Produce json
// @Param request body dto.PurchaseConfirmationRequest true "Purchase"
// @Success 200 {object} dto.SendEmailResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /send-purchase-confirmation [post]
func (h *NotificationHandler) SendPurchaseConfirmation(c *gin.Context) {
	var req dto.PurchaseConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.notificationService.SendPurchaseConfirmation(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
