package api

import (
	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/api/cron"
	v1 "github.com/upassistify/upassistify/internal/api/v1"
	"github.com/upassistify/upassistify/internal/auth"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/metrics"
	"github.com/upassistify/upassistify/internal/rest/middleware"
	"github.com/upassistify/upassistify/internal/service"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Coupon       *v1.CouponHandler
	Newsletter   *v1.NewsletterHandler
	Blog         *v1.BlogHandler
	Notification *v1.NotificationHandler
	Payment      *v1.PaymentHandler
	User         *v1.UserHandler

	CronScheduledContent *cron.ScheduledContentCronHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	authProvider auth.Provider,
	userService service.UserService,
	m *metrics.Metrics,
) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.RequestLogger(logger),
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// global middleware also runs for unmatched routes, so CORS pre-flight needs no OPTIONS routes
	public := router.Group("/v1")
	authenticated := router.Group("/v1", middleware.AuthenticateMiddleware(authProvider, logger))
	admin := router.Group("/v1", middleware.AuthenticateMiddleware(authProvider, logger), middleware.AdminMiddleware(userService))
	scheduled := router.Group("/v1", middleware.CronSecretMiddleware(cfg, logger))

	{
		public.POST("/validate-coupon", handlers.Coupon.ValidateCoupon)

		public.POST("/send-signup-welcome", handlers.Notification.SendSignupWelcome)
		public.POST("/send-profile-welcome", handlers.Notification.SendProfileWelcome)
		public.POST("/send-password-reset", handlers.Notification.SendPasswordReset)
		public.POST("/send-purchase-confirmation", handlers.Notification.SendPurchaseConfirmation)

		public.GET("/blog/posts", handlers.Blog.ListPublishedPosts)
		public.GET("/blog/posts/:slug", handlers.Blog.GetPublishedPost)
	}

	{
		authenticated.POST("/redeem-coupon", handlers.Coupon.RedeemCoupon)
		authenticated.POST("/create-payment-intent", handlers.Payment.CreatePaymentIntent)
	}

	{
		admin.POST("/create-coupon", handlers.Coupon.CreateCoupon)
		admin.POST("/send-newsletter", handlers.Newsletter.SendNewsletter)

		adminGroup := admin.Group("/admin")

		coupons := adminGroup.Group("/coupons")
		coupons.GET("", handlers.Coupon.ListCoupons)
		coupons.PATCH("/:id", handlers.Coupon.UpdateCoupon)

		newsletters := adminGroup.Group("/newsletters")
		newsletters.POST("", handlers.Newsletter.ScheduleNewsletter)
		newsletters.GET("", handlers.Newsletter.ListNewsletters)

		posts := adminGroup.Group("/blog/posts")
		posts.POST("", handlers.Blog.CreatePost)
		posts.GET("", handlers.Blog.ListPosts)
		posts.PUT("/:id", handlers.Blog.UpdatePost)
		adminGroup.POST("/blog/images", handlers.Blog.UploadImage)

		adminGroup.GET("/users", handlers.User.ListUsers)
	}

	{
		scheduled.POST("/process-scheduled-content", handlers.CronScheduledContent.ProcessScheduledContent)
		scheduled.POST("/cron/coupons/reconcile", handlers.CronScheduledContent.ReconcileCoupons)
	}

	return router
}
