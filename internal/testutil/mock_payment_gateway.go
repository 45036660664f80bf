package testutil

import (
	"context"
	"fmt"
	"sync"

	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/integration/stripe"
	"github.com/upassistify/upassistify/internal/types"
)

var _ stripe.Gateway = (*MockPaymentGateway)(nil)

// MockPaymentGateway records processor calls in memory
type MockPaymentGateway struct {
	mu       sync.Mutex
	enabled  bool
	coupons  map[string]stripe.CouponRequest
	intents  []stripe.PaymentIntentRequest
	failNext error
}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		enabled: true,
		coupons: make(map[string]stripe.CouponRequest),
	}
}

func (m *MockPaymentGateway) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// FailNext makes the next processor call return err
func (m *MockPaymentGateway) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// AddCoupon seeds a remote coupon, e.g. one created before a crash
func (m *MockPaymentGateway) AddCoupon(req stripe.CouponRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coupons[req.ID] = req
}

func (m *MockPaymentGateway) Coupon(id string) (stripe.CouponRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[id]
	return c, ok
}

func (m *MockPaymentGateway) PaymentIntents() []stripe.PaymentIntentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stripe.PaymentIntentRequest(nil), m.intents...)
}

func (m *MockPaymentGateway) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *MockPaymentGateway) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *MockPaymentGateway) CreateCoupon(_ context.Context, req stripe.CouponRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return "", err
	}
	if _, exists := m.coupons[req.ID]; exists {
		return "", ierr.NewErrorf("coupon %s already exists", req.ID).Mark(ierr.ErrHTTPClient)
	}
	m.coupons[req.ID] = req
	return req.ID, nil
}

func (m *MockPaymentGateway) CouponExists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return false, err
	}
	_, ok := m.coupons[id]
	return ok, nil
}

func (m *MockPaymentGateway) CreatePaymentIntent(_ context.Context, req stripe.PaymentIntentRequest) (*stripe.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.intents = append(m.intents, req)
	id := fmt.Sprintf("pi_test_%d", len(m.intents))
	return &stripe.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		AmountMinor:  types.ToMinorUnits(req.Amount),
	}, nil
}

func (m *MockPaymentGateway) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
	m.coupons = make(map[string]stripe.CouponRequest)
	m.intents = nil
	m.failNext = nil
}
