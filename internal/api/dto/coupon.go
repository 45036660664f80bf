package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/upassistify/upassistify/internal/domain/coupon"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
	"github.com/upassistify/upassistify/internal/validator"
)

var hundred = decimal.NewFromInt(100)

// ValidateCouponRequest previews a coupon against a price.
// OriginalPrice is kept raw so that missing, null and non-numeric
// values all map to the same rejection.
type ValidateCouponRequest struct {
	Code          string          `json:"code"`
	OriginalPrice json.RawMessage `json:"originalPrice" swaggertype:"number"`
}

// Validate checks the inputs in order and returns the parsed price
func (r *ValidateCouponRequest) Validate() (decimal.Decimal, error) {
	if strings.TrimSpace(r.Code) == "" {
		return decimal.Zero, ierr.NewError("coupon code is required").
			WithHint("Coupon code is required").
			Mark(ierr.ErrValidation)
	}

	price, ok := ParsePositiveAmount(r.OriginalPrice)
	if !ok {
		return decimal.Zero, ierr.NewError("original price must be a positive number").
			WithHint("Valid original price is required").
			Mark(ierr.ErrValidation)
	}

	return price, nil
}

// ParsePositiveAmount accepts a bare JSON number greater than zero
func ParsePositiveAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return decimal.Zero, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(n.String())
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// ValidateCouponResponse is the quote returned for an eligible coupon
type ValidateCouponResponse struct {
	Valid          bool               `json:"valid"`
	CouponID       string             `json:"couponId"`
	Code           string             `json:"code"`
	DiscountType   types.DiscountType `json:"discountType"`
	DiscountValue  float64            `json:"discountValue"`
	DiscountAmount float64            `json:"discountAmount"`
	FinalPrice     float64            `json:"finalPrice"`
	StripeCouponID *string            `json:"stripeCouponId,omitempty"`
}

func NewValidateCouponResponse(c *coupon.Coupon, q coupon.Quote) *ValidateCouponResponse {
	return &ValidateCouponResponse{
		Valid:          true,
		CouponID:       c.ID,
		Code:           c.Code,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue.InexactFloat64(),
		DiscountAmount: q.DiscountAmount.InexactFloat64(),
		FinalPrice:     q.FinalPrice.InexactFloat64(),
		StripeCouponID: c.ExternalReference,
	}
}

// CreateCouponRequest is the admin payload for issuing a coupon
type CreateCouponRequest struct {
	Code          string             `json:"code"`
	DiscountType  types.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value" swaggertype:"number"`
	MaxUses       *int               `json:"max_uses,omitempty"`
	ValidUntil    *time.Time         `json:"valid_until,omitempty"`
}

// Validate applies the issuance rules: required fields, a known type, at most two
// decimal places, percentage in (0, 100], fixed above zero, positive max uses and a future expiry.
func (r *CreateCouponRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.Code) == "" || r.DiscountType == "" || r.DiscountValue.IsZero() {
		return ierr.NewError("code, discount_type and discount_value are required").
			WithHint("Missing required fields").
			Mark(ierr.ErrValidation)
	}

	if err := r.DiscountType.Validate(); err != nil {
		return err
	}

	// stored as NUMERIC(12, 2); anything finer would differ from the processor's copy
	if !r.DiscountValue.Equal(r.DiscountValue.Round(2)) {
		return ierr.NewErrorf("discount value %s has more than two decimal places", r.DiscountValue).
			WithHint("Discount value can have at most two decimal places").
			Mark(ierr.ErrValidation)
	}

	switch r.DiscountType {
	case types.DiscountTypePercentage:
		if !r.DiscountValue.IsPositive() || r.DiscountValue.GreaterThan(hundred) {
			return ierr.NewErrorf("percentage discount %s out of range", r.DiscountValue).
				WithHint("Percentage discount must be greater than 0 and at most 100").
				Mark(ierr.ErrValidation)
		}
	case types.DiscountTypeFixed:
		if !r.DiscountValue.IsPositive() {
			return ierr.NewErrorf("fixed discount %s must be positive", r.DiscountValue).
				WithHint("Fixed discount must be greater than 0").
				Mark(ierr.ErrValidation)
		}
	}

	if r.MaxUses != nil && *r.MaxUses <= 0 {
		return ierr.NewError("max_uses must be positive").
			WithHint("Maximum uses must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	if r.ValidUntil != nil && !r.ValidUntil.After(now) {
		return ierr.NewError("valid_until must be in the future").
			WithHint("Expiry date must be in the future").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToCoupon builds the provisional row for this request
func (r *CreateCouponRequest) ToCoupon(createdBy string, now time.Time) *coupon.Coupon {
	return &coupon.Coupon{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:          coupon.NormalizeCode(r.Code),
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		IsActive:      false,
		MaxUses:       r.MaxUses,
		CurrentUses:   0,
		ValidUntil:    r.ValidUntil,
		SyncStatus:    types.CouponSyncStatusPending,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type CouponResponse struct {
	*coupon.Coupon
}

// UpdateCouponRequest toggles a coupon on or off
type UpdateCouponRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (r *UpdateCouponRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ListCouponsResponse = types.ListResponse[*CouponResponse]

// RedeemCouponRequest consumes one use of a coupon after a confirmed purchase
type RedeemCouponRequest struct {
	CouponID string `json:"couponId" validate:"required"`
}

func (r *RedeemCouponRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type RedeemCouponResponse struct {
	Success     bool   `json:"success"`
	CouponID    string `json:"couponId"`
	CurrentUses int    `json:"currentUses"`
}

// ReconcileCouponsResponse reports the outcome of a provisional coupon sweep
type ReconcileCouponsResponse struct {
	Success   bool `json:"success"`
	Finalized int  `json:"finalized"`
	Removed   int  `json:"removed"`
	Failed    int  `json:"failed"`
}
