package types

import (
	ierr "github.com/upassistify/upassistify/internal/errors"
)

// DiscountType represents how a coupon discount is applied
type DiscountType string

const (
	// DiscountTypePercentage takes a percentage off the original price
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixed takes a fixed currency amount off the original price
	DiscountTypeFixed DiscountType = "fixed"
)

func (d DiscountType) String() string {
	return string(d)
}

func (d DiscountType) Validate() error {
	switch d {
	case DiscountTypePercentage, DiscountTypeFixed:
		return nil
	default:
		return ierr.NewErrorf("invalid discount type: %s", d).
			WithHint("Discount type must be either percentage or fixed").
			WithReportableDetails(map[string]any{
				"allowed": []DiscountType{DiscountTypePercentage, DiscountTypeFixed},
			}).
			Mark(ierr.ErrValidation)
	}
}

// CouponSyncStatus tracks whether the payment processor mirror of a coupon exists
type CouponSyncStatus string

const (
	// CouponSyncStatusPending marks a provisional row whose mirror has not been confirmed
	CouponSyncStatusPending CouponSyncStatus = "pending"
	// CouponSyncStatusSynced marks a coupon whose mirror exists (or mirroring is disabled)
	CouponSyncStatusSynced CouponSyncStatus = "synced"
)

// CouponRejectReason is the machine readable cause of a coupon rejection
type CouponRejectReason string

const (
	CouponRejectInvalidCode  CouponRejectReason = "invalid_code"
	CouponRejectNotYetValid  CouponRejectReason = "not_yet_valid"
	CouponRejectExpired      CouponRejectReason = "expired"
	CouponRejectUsageLimited CouponRejectReason = "usage_limit_reached"
)
