package temporal

import (
	"context"
	"errors"

	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/temporal/models"
	"github.com/upassistify/upassistify/internal/temporal/workflows"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
)

// SweepScheduleOptions describes the recurring sweep. Overlapping runs are skipped,
// so a slow sweep never runs concurrently with the next one.
func SweepScheduleOptions(cfg *config.Configuration) client.ScheduleOptions {
	return client.ScheduleOptions{
		ID: cfg.Temporal.ScheduleID,
		Spec: client.ScheduleSpec{
			Intervals: []client.ScheduleIntervalSpec{
				{Every: cfg.Temporal.SweepInterval},
			},
		},
		Action: &client.ScheduleWorkflowAction{
			Workflow:  workflows.ScheduledContentSweepWorkflow,
			Args:      []interface{}{models.SweepWorkflowInput{ReconcileCoupons: true}},
			TaskQueue: cfg.Temporal.TaskQueue,
		},
		Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_SKIP,
	}
}

// EnsureSweepSchedule creates the sweep schedule, leaving an existing one untouched
func EnsureSweepSchedule(ctx context.Context, c *TemporalClient, cfg *config.Configuration, log *logger.Logger) error {
	opts := SweepScheduleOptions(cfg)

	_, err := c.Client.ScheduleClient().Create(ctx, opts)
	if errors.Is(err, temporal.ErrScheduleAlreadyRunning) {
		log.Infow("temporal sweep schedule already exists", "schedule_id", opts.ID)
		return nil
	}
	if err != nil {
		log.Errorw("failed to create temporal schedule", "schedule_id", opts.ID, "error", err)
		return ierr.WithError(err).
			WithHint("Failed to create Temporal schedule").
			Mark(ierr.ErrInternal)
	}

	log.Infow("temporal sweep schedule created",
		"schedule_id", opts.ID,
		"every", cfg.Temporal.SweepInterval.String())
	return nil
}
