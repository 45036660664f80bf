package service

import (
	"context"

	"github.com/upassistify/upassistify/internal/api/dto"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/integration/stripe"
	"github.com/upassistify/upassistify/internal/sentry"
	"github.com/upassistify/upassistify/internal/types"
)

// PaymentService starts checkouts with the payment processor
type PaymentService interface {
	// CreatePaymentIntent charges the plan amount, re-quoted server side when a coupon code is given
	CreatePaymentIntent(ctx context.Context, req dto.CreatePaymentIntentRequest) (*dto.CreatePaymentIntentResponse, error)
}

type paymentService struct {
	ServiceParams
	coupons CouponService
}

func NewPaymentService(params ServiceParams, coupons CouponService) PaymentService {
	return &paymentService{ServiceParams: params, coupons: coupons}
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, req dto.CreatePaymentIntentRequest) (*dto.CreatePaymentIntentResponse, error) {
	amount, err := req.Validate()
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"plan": string(req.Plan)}
	if userID := types.GetUserID(ctx); userID != "" {
		metadata["user_id"] = userID
	}

	var couponID string
	if req.CouponCode != "" {
		c, quote, err := s.coupons.QuoteCoupon(ctx, req.CouponCode, amount)
		if err != nil {
			return nil, err
		}
		couponID = c.ID
		amount = quote.FinalPrice
		metadata["coupon_id"] = c.ID
		metadata["coupon_code"] = c.Code
	}

	amount = types.RoundCurrency(amount)
	if !amount.IsPositive() {
		return nil, ierr.NewError("nothing to charge after discount").
			WithHint("The discounted amount is zero, no payment is required").
			Mark(ierr.ErrInvalidOperation)
	}

	span, ctx := s.Sentry.StartSpan(ctx, "stripe.payment_intent.create", string(req.Plan))
	defer sentry.FinishSpan(span)

	intent, err := s.PaymentGateway.CreatePaymentIntent(ctx, stripe.PaymentIntentRequest{
		Amount:   amount,
		Metadata: metadata,
	})
	if err != nil {
		s.Logger.Errorw("failed to create payment intent", "plan", req.Plan, "error", err)
		s.Sentry.CaptureWithTags(err, map[string]string{"plan": string(req.Plan)})
		return nil, err
	}

	s.Logger.Infow("payment intent created",
		"payment_intent_id", intent.ID,
		"plan", req.Plan,
		"amount", amount.StringFixed(2),
		"coupon_id", couponID,
	)

	return &dto.CreatePaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		Amount:       amount.InexactFloat64(),
		CouponID:     couponID,
	}, nil
}
