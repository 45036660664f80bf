package service

import (
	"github.com/upassistify/upassistify/internal/testutil"
)

// newTestParams wires the in-memory stores and fakes of the base suite
func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	mocks := s.GetMocks()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetCache(),
		s.GetMetrics(),
		s.GetSentry(),
		stores.CouponRepo,
		stores.NewsletterRepo,
		stores.BlogRepo,
		stores.ProfileRepo,
		stores.RoleRepo,
		mocks.PaymentGateway,
		s.GetEmailService(),
		s.GetImageService(),
	)
}
