package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/upassistify/upassistify/internal/cache"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/email"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/metrics"
	"github.com/upassistify/upassistify/internal/postgres"
	"github.com/upassistify/upassistify/internal/s3"
	"github.com/upassistify/upassistify/internal/sentry"
	"github.com/upassistify/upassistify/internal/types"
	"github.com/upassistify/upassistify/internal/validator"
)

// AdminUserID is granted the admin role in every test
const AdminUserID = "00000000-0000-0000-0000-00000000a11d"

// Stores holds the in-memory repositories used by service tests
type Stores struct {
	CouponRepo     *InMemoryCouponStore
	NewsletterRepo *InMemoryNewsletterStore
	BlogRepo       *InMemoryBlogStore
	ProfileRepo    *InMemoryProfileStore
	RoleRepo       *InMemoryRoleStore
}

// Mocks holds the fakes standing in for upstream services
type Mocks struct {
	PaymentGateway *MockPaymentGateway
	Mailer         *MockMailer
	ObjectStore    *MockObjectStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	mocks   Mocks
	db      postgres.IClient
	logger  *logger.Logger
	config  *config.Configuration
	cache   cache.Cache
	metrics *metrics.Metrics
	sentry  *sentry.Service
	now     time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.config.Stripe.Enabled = true
	s.config.Email.NewsletterRatePerSecond = 0

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	s.sentry = sentry.NewSentryService(s.config, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
	s.ctx = WithUser(s.ctx, AdminUserID, "admin@upassistify.test")
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CouponRepo:     NewInMemoryCouponStore(),
		NewsletterRepo: NewInMemoryNewsletterStore(),
		BlogRepo:       NewInMemoryBlogStore(),
		ProfileRepo:    NewInMemoryProfileStore(),
		RoleRepo:       NewInMemoryRoleStore(),
	}
	s.stores.RoleRepo.Grant(AdminUserID, s.config.Auth.AdminRole)

	s.mocks = Mocks{
		PaymentGateway: NewMockPaymentGateway(),
		Mailer:         NewMockMailer(),
		ObjectStore:    NewMockObjectStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.metrics = metrics.New()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.CouponRepo.Clear()
	s.stores.NewsletterRepo.Clear()
	s.stores.BlogRepo.Clear()
	s.stores.ProfileRepo.Clear()
	s.stores.RoleRepo.Clear()
	s.mocks.PaymentGateway.Clear()
	s.mocks.Mailer.Clear()
	s.mocks.ObjectStore.Clear()
	s.cache.Flush(context.Background())
}

// GetContext returns the test context, authenticated as the admin user
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetMocks returns the upstream fakes
func (s *BaseServiceTestSuite) GetMocks() Mocks {
	return s.mocks
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetMetrics() *metrics.Metrics {
	return s.metrics
}

func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetEmailService returns an email service backed by the mock mailer
func (s *BaseServiceTestSuite) GetEmailService() *email.Service {
	return email.NewService(s.config, s.mocks.Mailer, s.logger)
}

// GetImageService returns an image service backed by the mock object store
func (s *BaseServiceTestSuite) GetImageService() s3.ImageService {
	return s3.NewImageService(s.config, s.mocks.ObjectStore)
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}
