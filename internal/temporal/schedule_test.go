package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/temporal/models"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
)

func TestSweepScheduleOptions(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Temporal.SweepInterval = 2 * time.Minute

	opts := SweepScheduleOptions(cfg)

	assert.Equal(t, "scheduled-content-sweep", opts.ID)
	assert.Equal(t, enumspb.SCHEDULE_OVERLAP_POLICY_SKIP, opts.Overlap)
	require.Len(t, opts.Spec.Intervals, 1)
	assert.Equal(t, 2*time.Minute, opts.Spec.Intervals[0].Every)

	action, ok := opts.Action.(*client.ScheduleWorkflowAction)
	require.True(t, ok)
	assert.Equal(t, "upassistify-scheduled-content", action.TaskQueue)
	assert.Equal(t, []interface{}{models.SweepWorkflowInput{ReconcileCoupons: true}}, action.Args)
}
