package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/upassistify/upassistify/internal/types"
)

// Coupon is a redeemable discount code mirrored to the payment processor
type Coupon struct {
	ID                string                 `json:"id" db:"id"`
	Code              string                 `json:"code" db:"code"`
	DiscountType      types.DiscountType     `json:"discount_type" db:"discount_type"`
	DiscountValue     decimal.Decimal        `json:"discount_value" db:"discount_value"`
	IsActive          bool                   `json:"is_active" db:"is_active"`
	MaxUses           *int                   `json:"max_uses" db:"max_uses"`
	CurrentUses       int                    `json:"current_uses" db:"current_uses"`
	ValidFrom         *time.Time             `json:"valid_from" db:"valid_from"`
	ValidUntil        *time.Time             `json:"valid_until" db:"valid_until"`
	ExternalReference *string                `json:"stripe_coupon_id" db:"stripe_coupon_id"`
	SyncStatus        types.CouponSyncStatus `json:"sync_status" db:"sync_status"`
	CreatedBy         string                 `json:"created_by" db:"created_by"`
	CreatedAt         time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at" db:"updated_at"`
}

// NormalizeCode upper-cases a code so lookups are case-insensitive
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsRedeemable reports whether the coupon can be looked up by shoppers at all.
// Provisional rows whose mirror is not confirmed behave as inactive.
func (c *Coupon) IsRedeemable() bool {
	return c.IsActive && c.SyncStatus == types.CouponSyncStatusSynced
}

// HasUsesRemaining reports whether the usage limit still allows a redemption
func (c *Coupon) HasUsesRemaining() bool {
	return c.MaxUses == nil || c.CurrentUses < *c.MaxUses
}

// CheckEligibility applies the validity checks in order:
// active, not yet valid, expired, usage limit.
// valid_from == now and valid_until == now both count as inside the window.
func (c *Coupon) CheckEligibility(now time.Time) error {
	if !c.IsRedeemable() {
		return NewRejection(types.CouponRejectInvalidCode)
	}

	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return NewRejection(types.CouponRejectNotYetValid)
	}

	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return NewRejection(types.CouponRejectExpired)
	}

	if !c.HasUsesRemaining() {
		return NewRejection(types.CouponRejectUsageLimited)
	}

	return nil
}

// Quote prices an order with this coupon
func (c *Coupon) Quote(originalPrice decimal.Decimal) Quote {
	return Compute(c.DiscountType, c.DiscountValue, originalPrice)
}
