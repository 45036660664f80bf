package types

// PlanType is the purchasable plan recorded on a profile
type PlanType string

const (
	PlanTypeFree     PlanType = "free"
	PlanTypeMonthly  PlanType = "monthly"
	PlanTypeLifetime PlanType = "lifetime"
)

// PlanDetails describes a plan in customer facing emails
type PlanDetails struct {
	Title    string
	Period   string
	Features []string
}

var planCatalog = map[PlanType]PlanDetails{
	PlanTypeLifetime: {
		Title:    "Lifetime Access",
		Period:   "Forever",
		Features: []string{"Unlimited job matches", "AI proposal generator", "Priority support", "Early access to new features"},
	},
	PlanTypeMonthly: {
		Title:    "Monthly Subscription",
		Period:   "Monthly",
		Features: []string{"Unlimited job matches", "AI proposal generator", "Email support", "Cancel anytime"},
	},
}

// GetPlanDetails returns the catalog entry for a plan.
// Unknown plans fall back to the lifetime plan.
func GetPlanDetails(plan PlanType) PlanDetails {
	if details, ok := planCatalog[plan]; ok {
		return details
	}
	return planCatalog[PlanTypeLifetime]
}
