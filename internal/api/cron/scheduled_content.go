package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
)

type ScheduledContentCronHandler struct {
	contentService service.ScheduledContentService
	couponService  service.CouponService
	config         *config.Configuration
	logger         *logger.Logger
}

func NewScheduledContentCronHandler(
	contentService service.ScheduledContentService,
	couponService service.CouponService,
	config *config.Configuration,
	logger *logger.Logger,
) *ScheduledContentCronHandler {
	return &ScheduledContentCronHandler{
		contentService: contentService,
		couponService:  couponService,
		config:         config,
		logger:         logger,
	}
}

// @Summary Process scheduled content
// @Description Sends due newsletters and publishes due blog posts. Called by the external scheduler.
// @Tags Cron
// @Produce json
// @Success 200 {object} dto.ProcessScheduledContentResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /process-scheduled-content [post]
// @Security CronSecret
func (h *ScheduledContentCronHandler) ProcessScheduledContent(c *gin.Context) {
	now := time.Now().UTC()
	h.logger.Infow("starting scheduled content sweep", "now", now.Format(time.RFC3339))

	resp, err := h.contentService.Sweep(c.Request.Context(), now)
	if err != nil {
		h.logger.Errorw("scheduled content sweep failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Reconcile provisional coupons
// @Description Finalizes or removes coupons whose processor mirror was never confirmed
// @Tags Cron
// @Produce json
// @Success 200 {object} dto.ReconcileCouponsResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /cron/coupons/reconcile [post]
// @Security CronSecret
func (h *ScheduledContentCronHandler) ReconcileCoupons(c *gin.Context) {
	resp, err := h.couponService.ReconcileProvisional(c.Request.Context(), h.config.Scheduler.ProvisionalMaxAge)
	if err != nil {
		h.logger.Errorw("coupon reconciliation failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
