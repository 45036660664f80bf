package coupon

import (
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

var rejectionMessages = map[types.CouponRejectReason]string{
	types.CouponRejectInvalidCode:  "Invalid or expired coupon code",
	types.CouponRejectNotYetValid:  "This coupon is not yet valid",
	types.CouponRejectExpired:      "This coupon has expired",
	types.CouponRejectUsageLimited: "This coupon has reached its maximum usage limit",
}

// NewRejection builds the business error returned when a coupon cannot be applied
func NewRejection(reason types.CouponRejectReason) error {
	msg := rejectionMessages[reason]
	return ierr.NewErrorf("coupon rejected: %s", reason).
		WithHint(msg).
		WithReportableDetails(map[string]any{
			"reason": reason,
		}).
		Mark(ierr.ErrInvalidOperation)
}

// RejectionReason extracts the reason from an error built by NewRejection
func RejectionReason(err error) (types.CouponRejectReason, bool) {
	if err == nil || !ierr.IsInvalidOperation(err) {
		return "", false
	}
	reason, ok := ierr.ReportableDetails(err)["reason"].(string)
	if !ok {
		return "", false
	}
	return types.CouponRejectReason(reason), true
}
