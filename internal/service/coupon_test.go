package service

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/domain/coupon"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/integration/stripe"
	"github.com/upassistify/upassistify/internal/metrics"
	internaltestutil "github.com/upassistify/upassistify/internal/testutil"
	"github.com/upassistify/upassistify/internal/types"
)

type CouponServiceSuite struct {
	internaltestutil.BaseServiceTestSuite
	service CouponService
}

func TestCouponService(t *testing.T) {
	suite.Run(t, new(CouponServiceSuite))
}

func (s *CouponServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCouponService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *CouponServiceSuite) seedCoupon(code string, mutate func(c *coupon.Coupon)) *coupon.Coupon {
	c := &coupon.Coupon{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:          code,
		DiscountType:  types.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(20),
		IsActive:      true,
		SyncStatus:    types.CouponSyncStatusSynced,
		CreatedBy:     internaltestutil.AdminUserID,
		CreatedAt:     s.GetNow(),
		UpdatedAt:     s.GetNow(),
	}
	if mutate != nil {
		mutate(c)
	}
	s.Require().NoError(s.GetStores().CouponRepo.Create(s.GetContext(), c))
	return c
}

func validateReq(code, price string) dto.ValidateCouponRequest {
	req := dto.ValidateCouponRequest{Code: code}
	if price != "" {
		req.OriginalPrice = json.RawMessage(price)
	}
	return req
}

func (s *CouponServiceSuite) requireRejection(err error, reason types.CouponRejectReason, hint string) {
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(hint, ierr.DisplayMessage(err, ""))
	got, ok := coupon.RejectionReason(err)
	s.Require().True(ok)
	s.Equal(reason, got)
}

func (s *CouponServiceSuite) TestValidateCoupon() {
	s.seedCoupon("SAVE20", nil)

	resp, err := s.service.ValidateCoupon(s.GetContext(), validateReq("save20", "15.00"))
	s.Require().NoError(err)
	s.True(resp.Valid)
	s.Equal("SAVE20", resp.Code)
	s.Equal(types.DiscountTypePercentage, resp.DiscountType)
	s.Equal(20.0, resp.DiscountValue)
	s.Equal(3.0, resp.DiscountAmount)
	s.Equal(12.0, resp.FinalPrice)

	s.Equal(1.0, testutil.ToFloat64(s.GetMetrics().CouponValidations.WithLabelValues(metrics.OutcomeSuccess)))
}

func (s *CouponServiceSuite) TestValidateCouponFixedFloorsAtZero() {
	s.seedCoupon("FIVE", func(c *coupon.Coupon) {
		c.DiscountType = types.DiscountTypeFixed
		c.DiscountValue = decimal.NewFromInt(5)
	})

	resp, err := s.service.ValidateCoupon(s.GetContext(), validateReq("FIVE", "5.00"))
	s.Require().NoError(err)
	s.Equal(5.0, resp.DiscountAmount)
	s.Equal(0.0, resp.FinalPrice)
}

func (s *CouponServiceSuite) TestValidateCouponInputErrors() {
	tests := []struct {
		name string
		req  dto.ValidateCouponRequest
		hint string
	}{
		{"missing code", validateReq("", "15"), "Coupon code is required"},
		{"blank code", validateReq("   ", "15"), "Coupon code is required"},
		{"missing code wins over bad price", validateReq("", "-1"), "Coupon code is required"},
		{"missing price", validateReq("SAVE20", ""), "Valid original price is required"},
		{"null price", validateReq("SAVE20", "null"), "Valid original price is required"},
		{"zero price", validateReq("SAVE20", "0"), "Valid original price is required"},
		{"negative price", validateReq("SAVE20", "-3"), "Valid original price is required"},
		{"string price", validateReq("SAVE20", `"15"`), "Valid original price is required"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.ValidateCoupon(s.GetContext(), tt.req)
			s.Require().Error(err)
			s.True(ierr.IsValidation(err))
			s.Equal(tt.hint, ierr.DisplayMessage(err, ""))
		})
	}
}

func (s *CouponServiceSuite) TestValidateCouponRejections() {
	now := s.GetNow()
	s.seedCoupon("OFF", func(c *coupon.Coupon) { c.IsActive = false })
	s.seedCoupon("PENDING", func(c *coupon.Coupon) {
		c.IsActive = false
		c.SyncStatus = types.CouponSyncStatusPending
	})
	s.seedCoupon("LATER", func(c *coupon.Coupon) { c.ValidFrom = lo.ToPtr(now.Add(24 * time.Hour)) })
	s.seedCoupon("OLD", func(c *coupon.Coupon) { c.ValidUntil = lo.ToPtr(now.Add(-24 * time.Hour)) })
	s.seedCoupon("USEDUP", func(c *coupon.Coupon) {
		c.MaxUses = lo.ToPtr(2)
		c.CurrentUses = 2
	})

	tests := []struct {
		code   string
		reason types.CouponRejectReason
		hint   string
	}{
		{"NOPE", types.CouponRejectInvalidCode, "Invalid or expired coupon code"},
		{"OFF", types.CouponRejectInvalidCode, "Invalid or expired coupon code"},
		{"PENDING", types.CouponRejectInvalidCode, "Invalid or expired coupon code"},
		{"LATER", types.CouponRejectNotYetValid, "This coupon is not yet valid"},
		{"OLD", types.CouponRejectExpired, "This coupon has expired"},
		{"USEDUP", types.CouponRejectUsageLimited, "This coupon has reached its maximum usage limit"},
	}

	for _, tt := range tests {
		s.Run(tt.code, func() {
			_, err := s.service.ValidateCoupon(s.GetContext(), validateReq(tt.code, "15"))
			s.requireRejection(err, tt.reason, tt.hint)
		})
	}

	s.Equal(float64(len(tests)), testutil.ToFloat64(s.GetMetrics().CouponValidations.WithLabelValues(metrics.OutcomeRejected)))
}

func (s *CouponServiceSuite) TestValidateCouponDoesNotConsumeUses() {
	c := s.seedCoupon("ONCE", func(c *coupon.Coupon) { c.MaxUses = lo.ToPtr(1) })

	for i := 0; i < 3; i++ {
		_, err := s.service.ValidateCoupon(s.GetContext(), validateReq("ONCE", "10"))
		s.Require().NoError(err)
	}

	stored, err := s.GetStores().CouponRepo.Get(s.GetContext(), c.ID)
	s.Require().NoError(err)
	s.Equal(0, stored.CurrentUses)
}

func (s *CouponServiceSuite) createReq(code string) dto.CreateCouponRequest {
	return dto.CreateCouponRequest{
		Code:          code,
		DiscountType:  types.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(25),
		MaxUses:       lo.ToPtr(100),
		ValidUntil:    lo.ToPtr(s.GetNow().Add(30 * 24 * time.Hour)),
	}
}

func (s *CouponServiceSuite) TestCreateCoupon() {
	resp, err := s.service.CreateCoupon(s.GetContext(), s.createReq("spring25"))
	s.Require().NoError(err)

	s.Equal("SPRING25", resp.Code)
	s.True(resp.IsActive)
	s.Equal(types.CouponSyncStatusSynced, resp.SyncStatus)
	s.Equal(0, resp.CurrentUses)
	s.Equal(internaltestutil.AdminUserID, resp.CreatedBy)
	s.Require().NotNil(resp.ExternalReference)
	s.Equal(resp.ID, *resp.ExternalReference)

	mirror, ok := s.GetMocks().PaymentGateway.Coupon(resp.ID)
	s.Require().True(ok)
	s.Equal("SPRING25", mirror.Code)
	s.True(decimal.NewFromInt(25).Equal(mirror.DiscountValue))

	validated, err := s.service.ValidateCoupon(s.GetContext(), validateReq("spring25", "100"))
	s.Require().NoError(err)
	s.Equal(75.0, validated.FinalPrice)
}

func (s *CouponServiceSuite) TestCreateCouponRequiresAdmin() {
	ctx := internaltestutil.WithUser(internaltestutil.SetupContext(), "user_plain", "plain@upassistify.test")
	_, err := s.service.CreateCoupon(ctx, s.createReq("NOPE"))
	s.Require().Error(err)
	s.True(ierr.IsPermissionDenied(err))
	s.Equal("Unauthorized: Admin access required", ierr.DisplayMessage(err, ""))

	_, err = s.service.CreateCoupon(internaltestutil.WithUser(internaltestutil.SetupContext(), "", ""), s.createReq("NOPE"))
	s.Require().Error(err)
	s.True(ierr.IsUnauthenticated(err))

	count, err := s.GetStores().CouponRepo.Count(s.GetContext())
	s.Require().NoError(err)
	s.Equal(0, count)
	_, mirrored := s.GetMocks().PaymentGateway.Coupon("NOPE")
	s.False(mirrored)
}

func (s *CouponServiceSuite) TestCreateCouponValidation() {
	past := s.GetNow().Add(-time.Hour)
	tests := []struct {
		name   string
		mutate func(r *dto.CreateCouponRequest)
		hint   string
	}{
		{"missing code", func(r *dto.CreateCouponRequest) { r.Code = "" }, "Missing required fields"},
		{"missing type", func(r *dto.CreateCouponRequest) { r.DiscountType = "" }, "Missing required fields"},
		{"missing value", func(r *dto.CreateCouponRequest) { r.DiscountValue = decimal.Zero }, "Missing required fields"},
		{"unknown type", func(r *dto.CreateCouponRequest) { r.DiscountType = "bogo" }, "Discount type must be either percentage or fixed"},
		{"percentage above 100", func(r *dto.CreateCouponRequest) { r.DiscountValue = decimal.NewFromInt(101) }, "Percentage discount must be greater than 0 and at most 100"},
		{"negative percentage", func(r *dto.CreateCouponRequest) { r.DiscountValue = decimal.NewFromInt(-5) }, "Percentage discount must be greater than 0 and at most 100"},
		{"negative fixed", func(r *dto.CreateCouponRequest) {
			r.DiscountType = types.DiscountTypeFixed
			r.DiscountValue = decimal.NewFromInt(-1)
		}, "Fixed discount must be greater than 0"},
		{"percentage with three decimals", func(r *dto.CreateCouponRequest) { r.DiscountValue = decimal.RequireFromString("33.333") }, "Discount value can have at most two decimal places"},
		{"fixed with sub-cent amount", func(r *dto.CreateCouponRequest) {
			r.DiscountType = types.DiscountTypeFixed
			r.DiscountValue = decimal.RequireFromString("4.995")
		}, "Discount value can have at most two decimal places"},
		{"zero max uses", func(r *dto.CreateCouponRequest) { r.MaxUses = lo.ToPtr(0) }, "Maximum uses must be greater than 0"},
		{"past expiry", func(r *dto.CreateCouponRequest) { r.ValidUntil = &past }, "Expiry date must be in the future"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.createReq("VALID")
			tt.mutate(&req)
			_, err := s.service.CreateCoupon(s.GetContext(), req)
			s.Require().Error(err)
			s.True(ierr.IsValidation(err))
			s.Equal(tt.hint, ierr.DisplayMessage(err, ""))
		})
	}

	count, err := s.GetStores().CouponRepo.Count(s.GetContext())
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *CouponServiceSuite) TestCreateCouponDuplicateCode() {
	s.seedCoupon("TAKEN", nil)

	_, err := s.service.CreateCoupon(s.GetContext(), s.createReq("taken"))
	s.Require().Error(err)
	s.True(ierr.IsAlreadyExists(err))
	s.Equal("Coupon code TAKEN already exists", ierr.DisplayMessage(err, ""))
}

func (s *CouponServiceSuite) TestCreateCouponProcessorFailureLeavesNoRow() {
	s.GetMocks().PaymentGateway.FailNext(ierr.NewError("stripe is down").
		WithHint("Failed to create coupon at the payment processor").
		Mark(ierr.ErrHTTPClient))

	_, err := s.service.CreateCoupon(s.GetContext(), s.createReq("BROKEN"))
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))

	_, err = s.GetStores().CouponRepo.GetByCode(s.GetContext(), "BROKEN")
	s.True(ierr.IsNotFound(err))
	s.Equal(1.0, testutil.ToFloat64(s.GetMetrics().CouponIssuance.WithLabelValues(metrics.OutcomeError)))
}

func (s *CouponServiceSuite) TestCreateCouponWithProcessorDisabled() {
	s.GetMocks().PaymentGateway.SetEnabled(false)

	resp, err := s.service.CreateCoupon(s.GetContext(), s.createReq("LOCAL"))
	s.Require().NoError(err)
	s.True(resp.IsActive)
	s.Equal(types.CouponSyncStatusSynced, resp.SyncStatus)
	s.Nil(resp.ExternalReference)
}

func (s *CouponServiceSuite) TestRedeemCoupon() {
	c := s.seedCoupon("REDEEM", func(c *coupon.Coupon) { c.MaxUses = lo.ToPtr(2) })

	resp, err := s.service.RedeemCoupon(s.GetContext(), dto.RedeemCouponRequest{CouponID: c.ID})
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(1, resp.CurrentUses)

	resp, err = s.service.RedeemCoupon(s.GetContext(), dto.RedeemCouponRequest{CouponID: c.ID})
	s.Require().NoError(err)
	s.Equal(2, resp.CurrentUses)

	_, err = s.service.RedeemCoupon(s.GetContext(), dto.RedeemCouponRequest{CouponID: c.ID})
	s.requireRejection(err, types.CouponRejectUsageLimited, "This coupon has reached its maximum usage limit")
}

func (s *CouponServiceSuite) TestRedeemCouponRejections() {
	expired := s.seedCoupon("GONE", func(c *coupon.Coupon) { c.ValidUntil = lo.ToPtr(s.GetNow().Add(-time.Minute)) })

	_, err := s.service.RedeemCoupon(s.GetContext(), dto.RedeemCouponRequest{CouponID: expired.ID})
	s.requireRejection(err, types.CouponRejectExpired, "This coupon has expired")

	_, err = s.service.RedeemCoupon(s.GetContext(), dto.RedeemCouponRequest{CouponID: "cpn_missing"})
	s.requireRejection(err, types.CouponRejectInvalidCode, "Invalid or expired coupon code")

	_, err = s.service.RedeemCoupon(s.GetContext(), dto.RedeemCouponRequest{})
	s.True(ierr.IsValidation(err))
}

func (s *CouponServiceSuite) TestRedeemCouponConcurrentlyNeverExceedsLimit() {
	c := s.seedCoupon("RUSH", func(c *coupon.Coupon) { c.MaxUses = lo.ToPtr(3) })

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.service.RedeemCoupon(s.GetContext(), dto.RedeemCouponRequest{CouponID: c.ID}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(3, succeeded)
	stored, err := s.GetStores().CouponRepo.Get(s.GetContext(), c.ID)
	s.Require().NoError(err)
	s.Equal(3, stored.CurrentUses)
}

func (s *CouponServiceSuite) TestSetCouponActive() {
	c := s.seedCoupon("TOGGLE", nil)

	resp, err := s.service.SetCouponActive(s.GetContext(), c.ID, dto.UpdateCouponRequest{IsActive: lo.ToPtr(false)})
	s.Require().NoError(err)
	s.False(resp.IsActive)

	_, err = s.service.ValidateCoupon(s.GetContext(), validateReq("TOGGLE", "10"))
	s.requireRejection(err, types.CouponRejectInvalidCode, "Invalid or expired coupon code")

	pending := s.seedCoupon("PROVISIONAL", func(c *coupon.Coupon) {
		c.IsActive = false
		c.SyncStatus = types.CouponSyncStatusPending
	})
	_, err = s.service.SetCouponActive(s.GetContext(), pending.ID, dto.UpdateCouponRequest{IsActive: lo.ToPtr(true)})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.SetCouponActive(s.GetContext(), c.ID, dto.UpdateCouponRequest{})
	s.True(ierr.IsValidation(err))
}

func (s *CouponServiceSuite) TestListCoupons() {
	for i, code := range []string{"A1", "B2", "C3"} {
		created := s.GetNow().Add(time.Duration(i) * time.Minute)
		s.seedCoupon(code, func(c *coupon.Coupon) { c.CreatedAt = created })
	}

	resp, err := s.service.ListCoupons(s.GetContext(), &types.QueryFilter{Limit: 2})
	s.Require().NoError(err)
	s.Equal(3, resp.Total)
	s.Require().Len(resp.Items, 2)
	s.Equal("C3", resp.Items[0].Code)
	s.Equal("B2", resp.Items[1].Code)
}

func (s *CouponServiceSuite) TestReconcileProvisional() {
	stale := s.GetNow().Add(-time.Hour)
	mirrored := s.seedCoupon("CRASHED", func(c *coupon.Coupon) {
		c.IsActive = false
		c.SyncStatus = types.CouponSyncStatusPending
		c.CreatedAt = stale
	})
	orphan := s.seedCoupon("ORPHAN", func(c *coupon.Coupon) {
		c.IsActive = false
		c.SyncStatus = types.CouponSyncStatusPending
		c.CreatedAt = stale
	})
	fresh := s.seedCoupon("INFLIGHT", func(c *coupon.Coupon) {
		c.IsActive = false
		c.SyncStatus = types.CouponSyncStatusPending
	})
	s.GetMocks().PaymentGateway.AddCoupon(stripe.CouponRequest{ID: mirrored.ID, Code: mirrored.Code})

	resp, err := s.service.ReconcileProvisional(s.GetContext(), 10*time.Minute)
	s.Require().NoError(err)
	s.Equal(1, resp.Finalized)
	s.Equal(1, resp.Removed)
	s.Equal(0, resp.Failed)

	finalized, err := s.GetStores().CouponRepo.Get(s.GetContext(), mirrored.ID)
	s.Require().NoError(err)
	s.True(finalized.IsActive)
	s.Equal(types.CouponSyncStatusSynced, finalized.SyncStatus)

	_, err = s.GetStores().CouponRepo.Get(s.GetContext(), orphan.ID)
	s.True(ierr.IsNotFound(err))

	inflight, err := s.GetStores().CouponRepo.Get(s.GetContext(), fresh.ID)
	s.Require().NoError(err)
	s.Equal(types.CouponSyncStatusPending, inflight.SyncStatus)
}

func (s *CouponServiceSuite) TestReconcileProvisionalCountsLookupFailures() {
	s.seedCoupon("FLAKY", func(c *coupon.Coupon) {
		c.IsActive = false
		c.SyncStatus = types.CouponSyncStatusPending
		c.CreatedAt = s.GetNow().Add(-time.Hour)
	})
	s.GetMocks().PaymentGateway.FailNext(errors.New("timeout"))

	resp, err := s.service.ReconcileProvisional(s.GetContext(), 10*time.Minute)
	s.Require().NoError(err)
	s.Equal(1, resp.Failed)

	_, err = s.GetStores().CouponRepo.GetByCode(s.GetContext(), "FLAKY")
	s.NoError(err)
}
