package workflows

import (
	"time"

	"github.com/upassistify/upassistify/internal/temporal/activities"
	"github.com/upassistify/upassistify/internal/temporal/models"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// Workflow name - must match the function name
	WorkflowScheduledContentSweep = "ScheduledContentSweepWorkflow"
)

// ScheduledContentSweepWorkflow runs one sweep, optionally followed by coupon reconciliation.
// Activities are attempted once: a failed newsletter stays failed until the next scheduled run.
func ScheduledContentSweepWorkflow(ctx workflow.Context, input models.SweepWorkflowInput) (*models.SweepWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var sweep models.SweepActivityResult
	err := workflow.ExecuteActivity(ctx, activities.ActivitySweepScheduledContent, models.SweepActivityInput{
		Now: workflow.Now(ctx),
	}).Get(ctx, &sweep)
	if err != nil {
		logger.Error("Scheduled content sweep failed", "error", err)
		return nil, err
	}

	logger.Info("Scheduled content sweep completed",
		"newsletters_sent", sweep.NewslettersSent,
		"newsletters_failed", sweep.NewslettersFailed,
		"posts_published", sweep.PostsPublished)

	result := &models.SweepWorkflowResult{Sweep: sweep}

	if input.ReconcileCoupons {
		var reconcile models.ReconcileActivityResult
		if err := workflow.ExecuteActivity(ctx, activities.ActivityReconcileCoupons).Get(ctx, &reconcile); err != nil {
			// the sweep already happened, so reconciliation errors do not fail the run
			logger.Error("Coupon reconciliation failed", "error", err)
		} else {
			result.Reconcile = &reconcile
		}
	}

	result.CompletedAt = workflow.Now(ctx)
	return result, nil
}
