package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/upassistify/upassistify/internal/types"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		discountType types.DiscountType
		value        string
		price        string
		wantDiscount string
		wantFinal    string
	}{
		{"percentage SAVE20", types.DiscountTypePercentage, "20", "15.00", "3.00", "12.00"},
		{"fixed equal to price", types.DiscountTypeFixed, "5", "5.00", "5.00", "0.00"},
		{"fixed above price floors at zero", types.DiscountTypeFixed, "50", "15.00", "50.00", "0.00"},
		{"percentage rounds half up", types.DiscountTypePercentage, "15", "9.99", "1.50", "8.49"},
		{"percentage full discount", types.DiscountTypePercentage, "100", "49.99", "49.99", "0.00"},
		{"fixed with cents", types.DiscountTypeFixed, "2.50", "10", "2.50", "7.50"},
		{"unknown type gives no discount", types.DiscountType("bogo"), "10", "10.00", "0", "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compute(tt.discountType, d(tt.value), d(tt.price))
			assert.True(t, d(tt.wantDiscount).Equal(q.DiscountAmount), "discount: got %s", q.DiscountAmount)
			assert.True(t, d(tt.wantFinal).Equal(q.FinalPrice), "final: got %s", q.FinalPrice)
		})
	}
}

func TestComputeInvariants(t *testing.T) {
	prices := []string{"0.01", "1", "9.99", "15", "99.95", "1234.56"}
	percents := []string{"1", "10", "12.5", "33", "50", "99", "100"}

	for _, p := range prices {
		for _, v := range percents {
			q := Compute(types.DiscountTypePercentage, d(v), d(p))
			assert.False(t, q.FinalPrice.IsNegative())
			assert.True(t, q.FinalPrice.Equal(d(p).Round(2).Sub(q.DiscountAmount)), "price %s value %s", p, v)
			assert.True(t, q.DiscountAmount.Equal(q.DiscountAmount.Round(2)))
		}
	}

	fixed := []string{"0.5", "5", "15", "20", "500"}
	for _, p := range prices {
		for _, v := range fixed {
			q := Compute(types.DiscountTypeFixed, d(v), d(p))
			want := d(p).Sub(d(v)).Round(2)
			if want.IsNegative() {
				want = decimal.Zero
			}
			assert.True(t, want.Equal(q.FinalPrice), "price %s value %s", p, v)
		}
	}
}
