package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/api"
	"github.com/upassistify/upassistify/internal/api/cron"
	v1 "github.com/upassistify/upassistify/internal/api/v1"
	"github.com/upassistify/upassistify/internal/auth"
	"github.com/upassistify/upassistify/internal/cache"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/email"
	"github.com/upassistify/upassistify/internal/integration/stripe"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/metrics"
	"github.com/upassistify/upassistify/internal/postgres"
	"github.com/upassistify/upassistify/internal/repository"
	"github.com/upassistify/upassistify/internal/s3"
	"github.com/upassistify/upassistify/internal/scheduler"
	"github.com/upassistify/upassistify/internal/sentry"
	"github.com/upassistify/upassistify/internal/service"
	"github.com/upassistify/upassistify/internal/temporal"
	"github.com/upassistify/upassistify/internal/temporal/activities"
	"github.com/upassistify/upassistify/internal/types"
	"github.com/upassistify/upassistify/internal/validator"
	"go.uber.org/fx"
)

// @title UpAssistify API
// @version 1.0
// @description Coupons, newsletters, blog and transactional email for UpAssistify
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey CronSecret
// @in header
// @name X-Cron-Secret

func init() {
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,
			metrics.New,

			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewCouponRepository,
			repository.NewNewsletterRepository,
			repository.NewBlogRepository,
			repository.NewProfileRepository,
			repository.NewRoleRepository,

			// Upstream services
			auth.NewProvider,
			stripe.NewGateway,
			email.NewClient,
			email.NewMailer,
			email.NewService,
			s3.NewObjectStore,
			s3.NewImageService,
		),
	)

	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewUserService,
			service.NewCouponService,
			service.NewPaymentService,
			service.NewNotificationService,
			service.NewNewsletterDispatcher,
			service.NewNewsletterService,
			service.NewBlogService,
			service.NewScheduledContentService,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
			scheduler.New,
			activities.NewScheduledContentActivities,
		),
		fx.Invoke(
			validator.NewValidator,
			sentry.RegisterHooks,
			postgres.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	db postgres.IClient,
	couponService service.CouponService,
	newsletterService service.NewsletterService,
	blogService service.BlogService,
	notificationService service.NotificationService,
	paymentService service.PaymentService,
	userService service.UserService,
	contentService service.ScheduledContentService,
) api.Handlers {
	return api.Handlers{
		Health:               v1.NewHealthHandler(db, logger),
		Coupon:               v1.NewCouponHandler(couponService, logger),
		Newsletter:           v1.NewNewsletterHandler(newsletterService, logger),
		Blog:                 v1.NewBlogHandler(blogService, cfg, logger),
		Notification:         v1.NewNotificationHandler(notificationService, logger),
		Payment:              v1.NewPaymentHandler(paymentService, logger),
		User:                 v1.NewUserHandler(userService, logger),
		CronScheduledContent: cron.NewScheduledContentCronHandler(contentService, couponService, cfg, logger),
	}
}

func provideRouter(
	handlers api.Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	authProvider auth.Provider,
	userService service.UserService,
	m *metrics.Metrics,
) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, authProvider, userService, m)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	sched *scheduler.Scheduler,
	acts *activities.ScheduledContentActivities,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startScheduler(lc, sched, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(r)
	case types.ModeTemporalWorker:
		startTemporalWorker(lc, cfg, acts, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startScheduler(
	lc fx.Lifecycle,
	sched *scheduler.Scheduler,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	if !cfg.Scheduler.Enabled {
		log.Info("in-process scheduler is disabled, sweeps rely on the cron endpoints")
		return
	}
	if err := sched.Register(); err != nil {
		log.Fatalw("failed to register scheduled jobs", "error", err)
	}
	sched.RegisterWithLifecycle(lc)
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(ginLambda.ProxyWithContext)
}

func startTemporalWorker(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	acts *activities.ScheduledContentActivities,
	log *logger.Logger,
) {
	temporalClient, err := temporal.NewTemporalClient(cfg, log)
	if err != nil {
		log.Fatalw("failed to connect to temporal", "error", err)
	}

	worker := temporal.NewWorker(temporalClient, cfg, acts, log)
	worker.RegisterWithLifecycle(lc)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return temporal.EnsureSweepSchedule(ctx, temporalClient, cfg, log)
		},
		OnStop: func(ctx context.Context) error {
			temporalClient.Close()
			return nil
		},
	})
}
