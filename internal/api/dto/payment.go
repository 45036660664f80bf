package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

// CreatePaymentIntentRequest starts a checkout for a plan
type CreatePaymentIntentRequest struct {
	Amount     json.RawMessage `json:"amount" swaggertype:"number"`
	Plan       types.PlanType  `json:"plan"`
	CouponCode string          `json:"couponCode,omitempty"`
}

// Validate returns the parsed amount
func (r *CreatePaymentIntentRequest) Validate() (decimal.Decimal, error) {
	amount, ok := ParsePositiveAmount(r.Amount)
	if !ok || strings.TrimSpace(string(r.Plan)) == "" {
		return decimal.Zero, ierr.NewError("amount and plan are required").
			WithHint("Amount and plan are required").
			Mark(ierr.ErrValidation)
	}
	return amount, nil
}

type CreatePaymentIntentResponse struct {
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	CouponID     string  `json:"couponId,omitempty"`
}
