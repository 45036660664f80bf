package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/upassistify/upassistify/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Auth       AuthConfig
	Stripe     StripeConfig
	Email      EmailConfig
	S3         S3Config
	Scheduler  SchedulerConfig
	Cron       CronConfig
	Sentry     SentryConfig
	Temporal   TemporalConfig
	Cache      CacheConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required,oneof=local api aws_lambda_api temporal_worker"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type AuthConfig struct {
	Supabase  SupabaseConfig
	Secret    string
	AdminRole string `mapstructure:"admin_role"`
}

type SupabaseConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ServiceKey string `mapstructure:"service_key"`
}

type StripeConfig struct {
	Enabled   bool
	SecretKey string `mapstructure:"secret_key"`
	Currency  string
}

type EmailConfig struct {
	Enabled                 bool
	APIKey                  string  `mapstructure:"api_key"`
	FromAddress             string  `mapstructure:"from_address"`
	ReplyTo                 string  `mapstructure:"reply_to"`
	SiteURL                 string  `mapstructure:"site_url"`
	NewsletterConcurrency   int     `mapstructure:"newsletter_concurrency"`
	NewsletterRatePerSecond float64 `mapstructure:"newsletter_rate_per_second"` // <= 0 disables the cap
}

type S3Config struct {
	Enabled        bool
	Region         string
	Bucket         string
	KeyPrefix      string `mapstructure:"key_prefix"`
	PublicBaseURL  string `mapstructure:"public_base_url"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type SchedulerConfig struct {
	Enabled           bool
	SweepSchedule     string        `mapstructure:"sweep_schedule"`
	ReconcileSchedule string        `mapstructure:"reconcile_schedule"`
	ProvisionalMaxAge time.Duration `mapstructure:"provisional_max_age"`
	ClaimMaxAge       time.Duration `mapstructure:"claim_max_age"` // processing longer than this is failed
}

type CronConfig struct {
	Header string
	Secret string
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TemporalConfig struct {
	Address       string
	Namespace     string
	TaskQueue     string `mapstructure:"task_queue"`
	APIKey        string `mapstructure:"api_key"`
	TLS           bool
	ScheduleID    string        `mapstructure:"schedule_id"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func NewConfig() (*Configuration, error) {
	// .env is optional, real environment variables always win
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/upassistify")

	v.SetEnvPrefix("UPASSISTIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it without a config file
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "upassistify")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)

	v.SetDefault("auth.supabase.base_url", "")
	v.SetDefault("auth.supabase.service_key", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.admin_role", "admin")

	v.SetDefault("stripe.enabled", false)
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.currency", "usd")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.api_key", "")
	v.SetDefault("email.from_address", "UpAssistify <onboarding@resend.dev>")
	v.SetDefault("email.reply_to", "")
	v.SetDefault("email.site_url", "http://localhost:5173")
	v.SetDefault("email.newsletter_concurrency", 5)
	v.SetDefault("email.newsletter_rate_per_second", 2)

	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.key_prefix", "blog-images")
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("s3.max_upload_bytes", 5<<20)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.sweep_schedule", "*/5 * * * *")
	v.SetDefault("scheduler.reconcile_schedule", "*/15 * * * *")
	v.SetDefault("scheduler.provisional_max_age", 10*time.Minute)
	v.SetDefault("scheduler.claim_max_age", 30*time.Minute)

	v.SetDefault("cron.header", "X-Cron-Secret")
	v.SetDefault("cron.secret", "")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("temporal.address", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "upassistify-scheduled-content")
	v.SetDefault("temporal.api_key", "")
	v.SetDefault("temporal.tls", false)
	v.SetDefault("temporal.schedule_id", "scheduled-content-sweep")
	v.SetDefault("temporal.sweep_interval", 5*time.Minute)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Auth:       AuthConfig{AdminRole: "admin"},
		Stripe:     StripeConfig{Currency: "usd"},
		Email: EmailConfig{
			FromAddress:             "UpAssistify <onboarding@resend.dev>",
			SiteURL:                 "http://localhost:5173",
			NewsletterConcurrency:   5,
			NewsletterRatePerSecond: 2,
		},
		S3: S3Config{KeyPrefix: "blog-images", MaxUploadBytes: 5 << 20},
		Scheduler: SchedulerConfig{
			SweepSchedule:     "*/5 * * * *",
			ReconcileSchedule: "*/15 * * * *",
			ProvisionalMaxAge: 10 * time.Minute,
			ClaimMaxAge:       30 * time.Minute,
		},
		Cron: CronConfig{Header: "X-Cron-Secret"},
		Temporal: TemporalConfig{
			Address:       "localhost:7233",
			Namespace:     "default",
			TaskQueue:     "upassistify-scheduled-content",
			ScheduleID:    "scheduled-content-sweep",
			SweepInterval: 5 * time.Minute,
		},
		Cache: CacheConfig{Enabled: true, TTL: 5 * time.Minute},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
