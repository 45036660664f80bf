package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlanDetails(t *testing.T) {
	assert.Equal(t, "Monthly Subscription", GetPlanDetails(PlanTypeMonthly).Title)
	assert.Equal(t, "Lifetime Access", GetPlanDetails(PlanTypeLifetime).Title)
	assert.Equal(t, "Lifetime Access", GetPlanDetails(PlanType("enterprise")).Title)
}

func TestDiscountTypeValidate(t *testing.T) {
	assert.NoError(t, DiscountTypePercentage.Validate())
	assert.NoError(t, DiscountTypeFixed.Validate())
	assert.Error(t, DiscountType("bogus").Validate())
}
