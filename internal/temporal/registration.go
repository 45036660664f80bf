package temporal

import (
	"github.com/upassistify/upassistify/internal/temporal/activities"
	"github.com/upassistify/upassistify/internal/temporal/workflows"
	"go.temporal.io/sdk/worker"
)

// RegisterWorkflowsAndActivities registers all workflows and activities with a Temporal worker.
func RegisterWorkflowsAndActivities(w worker.Registry, acts *activities.ScheduledContentActivities) {
	w.RegisterWorkflow(workflows.ScheduledContentSweepWorkflow)

	// registered by method name so workflows can refer to them by constant
	w.RegisterActivity(acts.SweepScheduledContent)
	w.RegisterActivity(acts.ReconcileCoupons)
}
