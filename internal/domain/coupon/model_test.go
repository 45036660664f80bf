package coupon

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

func activeCoupon() *Coupon {
	return &Coupon{
		ID:            "cpn_test",
		Code:          "SAVE20",
		DiscountType:  types.DiscountTypePercentage,
		DiscountValue: d("20"),
		IsActive:      true,
		SyncStatus:    types.CouponSyncStatusSynced,
	}
}

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mutate     func(c *Coupon)
		wantReason types.CouponRejectReason
		wantHint   string
	}{
		{
			name:   "eligible",
			mutate: func(c *Coupon) {},
		},
		{
			name:       "inactive",
			mutate:     func(c *Coupon) { c.IsActive = false },
			wantReason: types.CouponRejectInvalidCode,
			wantHint:   "Invalid or expired coupon code",
		},
		{
			name:       "provisional mirror",
			mutate:     func(c *Coupon) { c.SyncStatus = types.CouponSyncStatusPending },
			wantReason: types.CouponRejectInvalidCode,
			wantHint:   "Invalid or expired coupon code",
		},
		{
			name:       "not yet valid",
			mutate:     func(c *Coupon) { c.ValidFrom = lo.ToPtr(now.Add(time.Hour)) },
			wantReason: types.CouponRejectNotYetValid,
			wantHint:   "This coupon is not yet valid",
		},
		{
			name:   "valid from exactly now",
			mutate: func(c *Coupon) { c.ValidFrom = lo.ToPtr(now) },
		},
		{
			name:       "expired",
			mutate:     func(c *Coupon) { c.ValidUntil = lo.ToPtr(now.Add(-time.Second)) },
			wantReason: types.CouponRejectExpired,
			wantHint:   "This coupon has expired",
		},
		{
			name:   "valid until exactly now",
			mutate: func(c *Coupon) { c.ValidUntil = lo.ToPtr(now) },
		},
		{
			name: "usage limit reached",
			mutate: func(c *Coupon) {
				c.MaxUses = lo.ToPtr(3)
				c.CurrentUses = 3
			},
			wantReason: types.CouponRejectUsageLimited,
			wantHint:   "This coupon has reached its maximum usage limit",
		},
		{
			name: "not yet valid wins over usage limit",
			mutate: func(c *Coupon) {
				c.ValidFrom = lo.ToPtr(now.Add(time.Hour))
				c.MaxUses = lo.ToPtr(1)
				c.CurrentUses = 1
			},
			wantReason: types.CouponRejectNotYetValid,
			wantHint:   "This coupon is not yet valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := activeCoupon()
			tt.mutate(c)

			err := c.CheckEligibility(now)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, ierr.IsInvalidOperation(err))
			assert.Equal(t, tt.wantHint, ierr.DisplayMessage(err, ""))

			reason, ok := RejectionReason(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizeCode(" save20 "))
}
