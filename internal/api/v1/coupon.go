package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/api/dto"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
	"github.com/upassistify/upassistify/internal/types"
)

type CouponHandler struct {
	couponService service.CouponService
	logger        *logger.Logger
}

func NewCouponHandler(couponService service.CouponService, logger *logger.Logger) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		logger:        logger,
	}
}

// @Summary Validate a coupon
// @Description Checks a coupon code against a price and returns the discount quote. Does not consume a use.
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.ValidateCouponRequest true "Coupon code and original price"
// @Success 200 {object} dto.ValidateCouponResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /validate-coupon [post]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.couponService.ValidateCoupon(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create a coupon
// @Description Issues a coupon and mirrors it to the payment processor. Admin only.
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.CreateCouponRequest true "Coupon definition"
// @Success 200 {object} dto.DataResponse[dto.CouponResponse]
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /create-coupon [post]
// @Security BearerAuth
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.couponService.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(resp))
}

// @Summary Redeem a coupon
// @Description Consumes one use of a coupon after a confirmed purchase
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.RedeemCouponRequest true "Coupon to redeem"
// @Success 200 {object} dto.RedeemCouponResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /redeem-coupon [post]
// @Security BearerAuth
func (h *CouponHandler) RedeemCoupon(c *gin.Context) {
	var req dto.RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.couponService.RedeemCoupon(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List coupons
// @Tags Coupons
// @Produce json
// @Param filter query types.QueryFilter false "Pagination"
// @Success 200 {object} dto.ListCouponsResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/coupons [get]
// @Security BearerAuth
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var filter types.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.couponService.ListCoupons(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Activate or deactivate a coupon
// @Tags Coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param request body dto.UpdateCouponRequest true "New active state"
// @Success 200 {object} dto.CouponResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/coupons/{id} [patch]
// @Security BearerAuth
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("coupon ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.couponService.SetCouponActive(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
