package service

import (
	"github.com/upassistify/upassistify/internal/cache"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/domain/blog"
	"github.com/upassistify/upassistify/internal/domain/coupon"
	"github.com/upassistify/upassistify/internal/domain/newsletter"
	"github.com/upassistify/upassistify/internal/domain/user"
	"github.com/upassistify/upassistify/internal/email"
	"github.com/upassistify/upassistify/internal/integration/stripe"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/metrics"
	"github.com/upassistify/upassistify/internal/postgres"
	"github.com/upassistify/upassistify/internal/s3"
	"github.com/upassistify/upassistify/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	DB      postgres.IClient
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Sentry  *sentry.Service

	// Repositories
	CouponRepo     coupon.Repository
	NewsletterRepo newsletter.Repository
	BlogRepo       blog.Repository
	ProfileRepo    user.ProfileRepository
	RoleRepo       user.RoleRepository

	// Upstream collaborators
	PaymentGateway stripe.Gateway
	EmailService   *email.Service
	ImageService   s3.ImageService
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	metrics *metrics.Metrics,
	sentryService *sentry.Service,
	couponRepo coupon.Repository,
	newsletterRepo newsletter.Repository,
	blogRepo blog.Repository,
	profileRepo user.ProfileRepository,
	roleRepo user.RoleRepository,
	paymentGateway stripe.Gateway,
	emailService *email.Service,
	imageService s3.ImageService,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		Cache:          cache,
		Metrics:        metrics,
		Sentry:         sentryService,
		CouponRepo:     couponRepo,
		NewsletterRepo: newsletterRepo,
		BlogRepo:       blogRepo,
		ProfileRepo:    profileRepo,
		RoleRepo:       roleRepo,
		PaymentGateway: paymentGateway,
		EmailService:   emailService,
		ImageService:   imageService,
	}
}
