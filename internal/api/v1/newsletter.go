package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/domain/newsletter"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
	"github.com/upassistify/upassistify/internal/types"
)

type NewsletterHandler struct {
	newsletterService service.NewsletterService
	logger            *logger.Logger
}

func NewNewsletterHandler(newsletterService service.NewsletterService, logger *logger.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
		logger:            logger,
	}
}

// @Summary Send a newsletter now
// @Description Sends a newsletter immediately to every profile, or to the given recipients
// @Tags Newsletters
// @Accept json
// @Produce json
// @Param request body dto.SendNewsletterRequest true "Newsletter"
// @Success 200 {object} dto.SendNewsletterResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /send-newsletter [post]
// @Security BearerAuth
func (h *NewsletterHandler) SendNewsletter(c *gin.Context) {
	var req dto.SendNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.newsletterService.SendNewsletter(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Schedule a newsletter
// @Tags Newsletters
// @Accept json
// @Produce json
// @Param request body dto.ScheduleNewsletterRequest true "Newsletter and send time"
// @Success 200 {object} dto.DataResponse[dto.NewsletterResponse]
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/newsletters [post]
// @Security BearerAuth
func (h *NewsletterHandler) ScheduleNewsletter(c *gin.Context) {
	var req dto.ScheduleNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.newsletterService.ScheduleNewsletter(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(resp))
}

// @Summary List scheduled newsletters
// @Tags Newsletters
// @Produce json
// @Param status query string false "pending, processing, sent or failed"
// @Param filter query types.QueryFilter false "Pagination"
// @Success 200 {object} dto.ListNewslettersResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/newsletters [get]
// @Security BearerAuth
func (h *NewsletterHandler) ListNewsletters(c *gin.Context) {
	var query types.QueryFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	filter := &newsletter.Filter{QueryFilter: &query}
	if status := c.Query("status"); status != "" {
		s := types.NewsletterStatus(status)
		filter.Status = &s
	}

	resp, err := h.newsletterService.ListNewsletters(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
