package activities

import (
	"context"

	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/service"
	"github.com/upassistify/upassistify/internal/temporal/models"
)

const (
	ActivitySweepScheduledContent = "SweepScheduledContent"
	ActivityReconcileCoupons      = "ReconcileCoupons"
)

// ScheduledContentActivities runs the sweeper and the coupon reconciler inside a Temporal worker
type ScheduledContentActivities struct {
	contentService service.ScheduledContentService
	couponService  service.CouponService
	config         *config.Configuration
}

func NewScheduledContentActivities(
	contentService service.ScheduledContentService,
	couponService service.CouponService,
	config *config.Configuration,
) *ScheduledContentActivities {
	return &ScheduledContentActivities{
		contentService: contentService,
		couponService:  couponService,
		config:         config,
	}
}

func (a *ScheduledContentActivities) SweepScheduledContent(ctx context.Context, input models.SweepActivityInput) (*models.SweepActivityResult, error) {
	resp, err := a.contentService.Sweep(ctx, input.Now.UTC())
	if err != nil {
		return nil, err
	}

	return &models.SweepActivityResult{
		NewslettersSent:   resp.NewslettersSent,
		NewslettersFailed: resp.NewslettersFailed,
		PostsPublished:    resp.PostsPublished,
	}, nil
}

func (a *ScheduledContentActivities) ReconcileCoupons(ctx context.Context) (*models.ReconcileActivityResult, error) {
	resp, err := a.couponService.ReconcileProvisional(ctx, a.config.Scheduler.ProvisionalMaxAge)
	if err != nil {
		return nil, err
	}

	return &models.ReconcileActivityResult{
		Finalized: resp.Finalized,
		Removed:   resp.Removed,
		Failed:    resp.Failed,
	}, nil
}
