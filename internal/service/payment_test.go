package service

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/domain/coupon"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/testutil"
	"github.com/upassistify/upassistify/internal/types"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.service = NewPaymentService(params, NewCouponService(params))
}

func (s *PaymentServiceSuite) seedCoupon(code string, discountType types.DiscountType, value int64) *coupon.Coupon {
	c := &coupon.Coupon{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: decimal.NewFromInt(value),
		IsActive:      true,
		SyncStatus:    types.CouponSyncStatusSynced,
		CreatedAt:     s.GetNow(),
		UpdatedAt:     s.GetNow(),
	}
	s.Require().NoError(s.GetStores().CouponRepo.Create(s.GetContext(), c))
	return c
}

func (s *PaymentServiceSuite) TestCreatePaymentIntent() {
	resp, err := s.service.CreatePaymentIntent(s.GetContext(), dto.CreatePaymentIntentRequest{
		Amount: json.RawMessage("49.99"),
		Plan:   types.PlanTypeLifetime,
	})
	s.Require().NoError(err)
	s.Equal("pi_test_1_secret", resp.ClientSecret)
	s.Equal(49.99, resp.Amount)
	s.Empty(resp.CouponID)

	intents := s.GetMocks().PaymentGateway.PaymentIntents()
	s.Require().Len(intents, 1)
	s.Equal("lifetime", intents[0].Metadata["plan"])
	s.Equal(testutil.AdminUserID, intents[0].Metadata["user_id"])
	s.Equal(int64(4999), types.ToMinorUnits(intents[0].Amount))
}

func (s *PaymentServiceSuite) TestCreatePaymentIntentWithCoupon() {
	c := s.seedCoupon("SAVE20", types.DiscountTypePercentage, 20)

	resp, err := s.service.CreatePaymentIntent(s.GetContext(), dto.CreatePaymentIntentRequest{
		Amount:     json.RawMessage("15"),
		Plan:       types.PlanTypeMonthly,
		CouponCode: "save20",
	})
	s.Require().NoError(err)
	s.Equal(12.0, resp.Amount)
	s.Equal(c.ID, resp.CouponID)

	intents := s.GetMocks().PaymentGateway.PaymentIntents()
	s.Require().Len(intents, 1)
	s.True(decimal.NewFromInt(12).Equal(intents[0].Amount))
	s.Equal(c.ID, intents[0].Metadata["coupon_id"])
}

func (s *PaymentServiceSuite) TestCreatePaymentIntentRejections() {
	s.seedCoupon("FREEBIE", types.DiscountTypePercentage, 100)

	_, err := s.service.CreatePaymentIntent(s.GetContext(), dto.CreatePaymentIntentRequest{Plan: types.PlanTypeLifetime})
	s.True(ierr.IsValidation(err))
	s.Equal("Amount and plan are required", ierr.DisplayMessage(err, ""))

	_, err = s.service.CreatePaymentIntent(s.GetContext(), dto.CreatePaymentIntentRequest{Amount: json.RawMessage("10")})
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreatePaymentIntent(s.GetContext(), dto.CreatePaymentIntentRequest{
		Amount:     json.RawMessage("10"),
		Plan:       types.PlanTypeLifetime,
		CouponCode: "MISSING",
	})
	s.True(ierr.IsInvalidOperation(err))
	s.Equal("Invalid or expired coupon code", ierr.DisplayMessage(err, ""))

	_, err = s.service.CreatePaymentIntent(s.GetContext(), dto.CreatePaymentIntentRequest{
		Amount:     json.RawMessage("10"),
		Plan:       types.PlanTypeLifetime,
		CouponCode: "FREEBIE",
	})
	s.True(ierr.IsInvalidOperation(err))

	s.Empty(s.GetMocks().PaymentGateway.PaymentIntents())
}

func (s *PaymentServiceSuite) TestCreatePaymentIntentProcessorFailure() {
	s.GetMocks().PaymentGateway.FailNext(ierr.NewError("card network down").Mark(ierr.ErrHTTPClient))

	_, err := s.service.CreatePaymentIntent(s.GetContext(), dto.CreatePaymentIntentRequest{
		Amount: json.RawMessage("5"),
		Plan:   types.PlanTypeMonthly,
	})
	s.True(ierr.IsHTTPClient(err))
}
