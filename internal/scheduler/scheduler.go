package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
	"go.uber.org/fx"
)

// jobTimeout bounds a single run so a stuck upstream cannot hold the job forever
const jobTimeout = 10 * time.Minute

// Scheduler drives the scheduled content sweep and the provisional coupon
// reconciliation in-process. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron           *cron.Cron
	config         *config.Configuration
	logger         *logger.Logger
	contentService service.ScheduledContentService
	couponService  service.CouponService
	now            func() time.Time
}

func New(
	cfg *config.Configuration,
	logger *logger.Logger,
	contentService service.ScheduledContentService,
	couponService service.CouponService,
) *Scheduler {
	cronLogger := cron.PrintfLogger(printfAdapter{logger})
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(
				cron.Recover(cronLogger),
				cron.SkipIfStillRunning(cronLogger),
			),
		),
		config:         cfg,
		logger:         logger,
		contentService: contentService,
		couponService:  couponService,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Register adds the jobs using the cron specs from the configuration
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.config.Scheduler.SweepSchedule, s.RunSweep); err != nil {
		s.logger.Errorw("invalid sweep schedule", "spec", s.config.Scheduler.SweepSchedule, "error", err)
		return err
	}

	if _, err := s.cron.AddFunc(s.config.Scheduler.ReconcileSchedule, s.RunReconcile); err != nil {
		s.logger.Errorw("invalid reconcile schedule", "spec", s.config.Scheduler.ReconcileSchedule, "error", err)
		return err
	}

	return nil
}

// RunSweep performs one scheduled content sweep
func (s *Scheduler) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	resp, err := s.contentService.Sweep(ctx, s.now())
	if err != nil {
		s.logger.Errorw("scheduled sweep failed", "error", err)
		return
	}

	s.logger.Infow("scheduled sweep finished",
		"newsletters_sent", resp.NewslettersSent,
		"newsletters_failed", resp.NewslettersFailed,
		"posts_published", resp.PostsPublished,
	)
}

// RunReconcile finalizes or removes stale provisional coupons
func (s *Scheduler) RunReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	resp, err := s.couponService.ReconcileProvisional(ctx, s.config.Scheduler.ProvisionalMaxAge)
	if err != nil {
		s.logger.Errorw("coupon reconciliation failed", "error", err)
		return
	}

	if resp.Finalized+resp.Removed+resp.Failed > 0 {
		s.logger.Infow("coupon reconciliation finished",
			"finalized", resp.Finalized,
			"removed", resp.Removed,
			"failed", resp.Failed,
		)
	}
}

// RegisterWithLifecycle starts the scheduler with the application and waits for running jobs on stop.
// Jobs must already be added with Register.
func (s *Scheduler) RegisterWithLifecycle(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.logger.Infow("starting scheduler",
				"sweep", s.config.Scheduler.SweepSchedule,
				"reconcile", s.config.Scheduler.ReconcileSchedule,
			)
			s.cron.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.logger.Info("stopping scheduler")
			select {
			case <-s.cron.Stop().Done():
			case <-ctx.Done():
				s.logger.Error("timeout while waiting for scheduled jobs to finish")
			}
			return nil
		},
	})
}

// printfAdapter routes cron's internal logging through zap
type printfAdapter struct {
	logger *logger.Logger
}

func (p printfAdapter) Printf(format string, args ...interface{}) {
	p.logger.Debugf(format, args...)
}
