package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/domain/coupon"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/integration/stripe"
	"github.com/upassistify/upassistify/internal/metrics"
	"github.com/upassistify/upassistify/internal/sentry"
	"github.com/upassistify/upassistify/internal/types"
)

// CouponService defines the interface for coupon operations
type CouponService interface {
	// ValidateCoupon previews a coupon against a price. It never writes.
	ValidateCoupon(ctx context.Context, req dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error)

	// QuoteCoupon looks up an eligible coupon by code and prices the order with it
	QuoteCoupon(ctx context.Context, code string, originalPrice decimal.Decimal) (*coupon.Coupon, coupon.Quote, error)

	// CreateCoupon issues a coupon and mirrors it to the payment processor
	CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error)

	// RedeemCoupon consumes one use of a coupon
	RedeemCoupon(ctx context.Context, req dto.RedeemCouponRequest) (*dto.RedeemCouponResponse, error)

	ListCoupons(ctx context.Context, filter *types.QueryFilter) (*dto.ListCouponsResponse, error)
	SetCouponActive(ctx context.Context, id string, req dto.UpdateCouponRequest) (*dto.CouponResponse, error)

	// ReconcileProvisional finalizes or removes coupons left pending for longer than olderThan
	ReconcileProvisional(ctx context.Context, olderThan time.Duration) (*dto.ReconcileCouponsResponse, error)
}

type couponService struct {
	ServiceParams
}

// NewCouponService creates a new coupon service
func NewCouponService(params ServiceParams) CouponService {
	return &couponService{
		ServiceParams: params,
	}
}

func (s *couponService) ValidateCoupon(ctx context.Context, req dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error) {
	price, err := req.Validate()
	if err != nil {
		s.Metrics.CouponValidations.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	c, quote, err := s.QuoteCoupon(ctx, req.Code, price)
	if err != nil {
		if _, ok := coupon.RejectionReason(err); ok {
			s.Metrics.CouponValidations.WithLabelValues(metrics.OutcomeRejected).Inc()
		} else {
			s.Metrics.CouponValidations.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	s.Metrics.CouponValidations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return dto.NewValidateCouponResponse(c, quote), nil
}

func (s *couponService) QuoteCoupon(ctx context.Context, code string, originalPrice decimal.Decimal) (*coupon.Coupon, coupon.Quote, error) {
	c, err := s.lookup(ctx, code)
	if err != nil {
		return nil, coupon.Quote{}, err
	}

	if err := c.CheckEligibility(time.Now().UTC()); err != nil {
		s.Logger.Debugw("coupon rejected", "code", c.Code, "error", err)
		return nil, coupon.Quote{}, err
	}

	return c, c.Quote(originalPrice), nil
}

// lookup maps a missing code onto the same rejection as an inactive one
func (s *couponService) lookup(ctx context.Context, code string) (*coupon.Coupon, error) {
	c, err := s.CouponRepo.GetByCode(ctx, coupon.NormalizeCode(code))
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, coupon.NewRejection(types.CouponRejectInvalidCode)
		}
		s.Logger.Errorw("failed to look up coupon", "code", code, "error", err)
		return nil, err
	}
	return c, nil
}

func (s *couponService) CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	if err := requireAdmin(ctx, s.ServiceParams); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := req.Validate(now); err != nil {
		s.Metrics.CouponIssuance.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	c := req.ToCoupon(types.GetUserID(ctx), now)
	if err := s.CouponRepo.Create(ctx, c); err != nil {
		if ierr.IsAlreadyExists(err) {
			s.Metrics.CouponIssuance.WithLabelValues(metrics.OutcomeRejected).Inc()
			s.Logger.Infow("duplicate coupon code", "code", c.Code, "error", err)
			return nil, ierr.NewErrorf("coupon code %s already exists", c.Code).
				WithHintf("Coupon code %s already exists", c.Code).
				WithReportableDetails(map[string]any{"code": c.Code}).
				Mark(ierr.ErrAlreadyExists)
		}
		s.Metrics.CouponIssuance.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	ref, err := s.mirror(ctx, c)
	if err != nil {
		s.Metrics.CouponIssuance.WithLabelValues(metrics.OutcomeError).Inc()
		s.Sentry.CaptureWithTags(err, map[string]string{"coupon_id": c.ID, "code": c.Code})

		if delErr := s.CouponRepo.Delete(ctx, c.ID); delErr != nil {
			// left pending, the reconciler removes or finalizes it later
			s.Logger.Errorw("failed to remove provisional coupon",
				"coupon_id", c.ID,
				"error", delErr,
			)
		}
		return nil, err
	}

	if err := s.CouponRepo.MarkSynced(ctx, c.ID, ref); err != nil {
		s.Metrics.CouponIssuance.WithLabelValues(metrics.OutcomeError).Inc()
		s.Logger.Errorw("failed to finalize coupon", "coupon_id", c.ID, "error", err)
		return nil, err
	}

	created, err := s.CouponRepo.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	s.Metrics.CouponIssuance.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.Logger.Infow("coupon created",
		"coupon_id", created.ID,
		"code", created.Code,
		"discount_type", created.DiscountType,
		"stripe_coupon_id", lo.FromPtr(created.ExternalReference),
		"created_by", types.GetUserEmail(ctx),
	)

	return &dto.CouponResponse{Coupon: created}, nil
}

// mirror creates the processor side of a coupon. It returns a nil reference
// when payment processing is turned off.
func (s *couponService) mirror(ctx context.Context, c *coupon.Coupon) (*string, error) {
	if !s.PaymentGateway.Enabled() {
		s.Logger.Warnw("payment processing disabled, coupon not mirrored", "coupon_id", c.ID)
		return nil, nil
	}

	span, ctx := s.Sentry.StartSpan(ctx, "stripe.coupon.create", c.Code)
	defer sentry.FinishSpan(span)

	ref, err := s.PaymentGateway.CreateCoupon(ctx, stripe.CouponRequest{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
	})
	if err != nil {
		s.Logger.Errorw("failed to mirror coupon", "coupon_id", c.ID, "error", err)
		return nil, err
	}
	return &ref, nil
}

func (s *couponService) RedeemCoupon(ctx context.Context, req dto.RedeemCouponRequest) (*dto.RedeemCouponResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CouponRepo.Get(ctx, req.CouponID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Metrics.CouponRedemptions.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, coupon.NewRejection(types.CouponRejectInvalidCode)
		}
		s.Metrics.CouponRedemptions.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	if err := c.CheckEligibility(time.Now().UTC()); err != nil {
		s.Metrics.CouponRedemptions.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	ok, err := s.CouponRepo.IncrementUses(ctx, c.ID)
	if err != nil {
		s.Metrics.CouponRedemptions.WithLabelValues(metrics.OutcomeError).Inc()
		s.Logger.Errorw("failed to redeem coupon", "coupon_id", c.ID, "error", err)
		return nil, err
	}
	if !ok {
		// a concurrent redemption took the last use
		s.Metrics.CouponRedemptions.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, coupon.NewRejection(types.CouponRejectUsageLimited)
	}

	updated, err := s.CouponRepo.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	s.Metrics.CouponRedemptions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.Logger.Infow("coupon redeemed",
		"coupon_id", updated.ID,
		"current_uses", updated.CurrentUses,
		"user_id", types.GetUserID(ctx),
	)

	return &dto.RedeemCouponResponse{
		Success:     true,
		CouponID:    updated.ID,
		CurrentUses: updated.CurrentUses,
	}, nil
}

func (s *couponService) ListCoupons(ctx context.Context, filter *types.QueryFilter) (*dto.ListCouponsResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	coupons, err := s.CouponRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.CouponRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListCouponsResponse{
		Items: lo.Map(coupons, func(c *coupon.Coupon, _ int) *dto.CouponResponse {
			return &dto.CouponResponse{Coupon: c}
		}),
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}

func (s *couponService) SetCouponActive(ctx context.Context, id string, req dto.UpdateCouponRequest) (*dto.CouponResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CouponRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	active := lo.FromPtr(req.IsActive)
	if active && c.SyncStatus != types.CouponSyncStatusSynced {
		return nil, ierr.NewErrorf("coupon %s is still provisional", id).
			WithHint("Coupon is not yet available at the payment processor").
			Mark(ierr.ErrInvalidOperation)
	}

	c.IsActive = active
	c.UpdatedAt = time.Now().UTC()
	if err := s.CouponRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("coupon updated", "coupon_id", c.ID, "is_active", c.IsActive, "user_id", types.GetUserID(ctx))
	return &dto.CouponResponse{Coupon: c}, nil
}

func (s *couponService) ReconcileProvisional(ctx context.Context, olderThan time.Duration) (*dto.ReconcileCouponsResponse, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	pending, err := s.CouponRepo.ListProvisional(ctx, cutoff)
	if err != nil {
		s.Logger.Errorw("failed to list provisional coupons", "error", err)
		return nil, err
	}

	resp := &dto.ReconcileCouponsResponse{Success: true}
	for _, c := range pending {
		finalized, err := s.reconcileOne(ctx, c)
		if err != nil {
			resp.Failed++
			s.Logger.Errorw("failed to reconcile coupon", "coupon_id", c.ID, "error", err)
			s.Sentry.CaptureWithTags(err, map[string]string{"coupon_id": c.ID})
			continue
		}
		if finalized {
			resp.Finalized++
		} else {
			resp.Removed++
		}
	}

	if len(pending) > 0 {
		s.Logger.Infow("reconciled provisional coupons",
			"finalized", resp.Finalized,
			"removed", resp.Removed,
			"failed", resp.Failed,
		)
	}
	return resp, nil
}

// reconcileOne reports true when the coupon was finalized and false when it was removed
func (s *couponService) reconcileOne(ctx context.Context, c *coupon.Coupon) (bool, error) {
	if !s.PaymentGateway.Enabled() {
		return true, s.CouponRepo.MarkSynced(ctx, c.ID, nil)
	}

	exists, err := s.PaymentGateway.CouponExists(ctx, c.ID)
	if err != nil {
		return false, err
	}

	if exists {
		return true, s.CouponRepo.MarkSynced(ctx, c.ID, lo.ToPtr(c.ID))
	}
	return false, s.CouponRepo.Delete(ctx, c.ID)
}
