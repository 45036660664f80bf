package stripe

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/types"
)

// CouponRequest describes a processor coupon mirroring a local coupon
type CouponRequest struct {
	// ID is reused as the processor coupon ID so the mirror can be found from the local row
	ID            string
	Code          string
	DiscountType  types.DiscountType
	DiscountValue decimal.Decimal
}

// PaymentIntentRequest describes a one-off charge in major currency units
type PaymentIntentRequest struct {
	Amount   decimal.Decimal
	Metadata map[string]string
}

// PaymentIntent is the subset of the processor response returned to clients
type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountMinor  int64
}

// Gateway is the payment processor boundary
type Gateway interface {
	// Enabled reports whether calls reach the processor
	Enabled() bool
	// CreateCoupon creates the mirror and returns the processor coupon ID
	CreateCoupon(ctx context.Context, req CouponRequest) (string, error)
	// CouponExists reports whether a mirror with the given ID exists
	CouponExists(ctx context.Context, id string) (bool, error)
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
}

type gateway struct {
	client   *stripe.Client
	currency string
	logger   *logger.Logger
}

func NewGateway(cfg *config.Configuration, logger *logger.Logger) Gateway {
	g := &gateway{
		currency: cfg.Stripe.Currency,
		logger:   logger,
	}
	if cfg.Stripe.Enabled && cfg.Stripe.SecretKey != "" {
		g.client = stripe.NewClient(cfg.Stripe.SecretKey, nil)
	} else {
		logger.Warn("stripe is disabled, coupons will not be mirrored and checkout is unavailable")
	}
	return g
}

func (g *gateway) Enabled() bool {
	return g.client != nil
}

func (g *gateway) CreateCoupon(ctx context.Context, req CouponRequest) (string, error) {
	if !g.Enabled() {
		return "", errDisabled()
	}

	params := &stripe.CouponCreateParams{
		ID:       stripe.String(req.ID),
		Name:     stripe.String(req.Code),
		Duration: stripe.String(string(stripe.CouponDurationOnce)),
	}

	switch req.DiscountType {
	case types.DiscountTypePercentage:
		percent, _ := req.DiscountValue.Float64()
		params.PercentOff = stripe.Float64(percent)
	case types.DiscountTypeFixed:
		params.AmountOff = stripe.Int64(types.ToMinorUnits(req.DiscountValue))
		params.Currency = stripe.String(g.currency)
	default:
		return "", req.DiscountType.Validate()
	}

	c, err := g.client.V1Coupons.Create(ctx, params)
	if err != nil {
		g.logger.Errorw("failed to create stripe coupon", "coupon_id", req.ID, "code", req.Code, "error", err)
		return "", wrapStripeError(err, "Failed to create coupon with payment processor")
	}

	g.logger.Infow("created stripe coupon", "coupon_id", req.ID, "stripe_coupon_id", c.ID)
	return c.ID, nil
}

func (g *gateway) CouponExists(ctx context.Context, id string) (bool, error) {
	if !g.Enabled() {
		return false, errDisabled()
	}

	_, err := g.client.V1Coupons.Retrieve(ctx, id, nil)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return false, nil
		}
		return false, wrapStripeError(err, "Failed to look up coupon with payment processor")
	}
	return true, nil
}

func (g *gateway) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	if !g.Enabled() {
		return nil, errDisabled()
	}

	amount := types.ToMinorUnits(req.Amount)
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: req.Metadata,
	}

	pi, err := g.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		g.logger.Errorw("failed to create payment intent", "amount", amount, "error", err)
		return nil, wrapStripeError(err, "Failed to create payment intent")
	}

	g.logger.Infow("payment intent created", "payment_intent_id", pi.ID, "amount", amount)
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.Amount,
	}, nil
}

func errDisabled() error {
	return ierr.NewError("stripe is not configured").
		WithHint("Payment processing is not configured").
		Mark(ierr.ErrInvalidOperation)
}

func wrapStripeError(err error, hint string) error {
	details := map[string]any{}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		details["stripe_error_code"] = stripeErr.Code
		details["stripe_error_type"] = stripeErr.Type
	}
	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(details).
		Mark(ierr.ErrHTTPClient)
}
