package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upassistify/upassistify/internal/types"
)

func TestNewConfigDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.ModeLocal, cfg.Deployment.Mode)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "admin", cfg.Auth.AdminRole)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.ProvisionalMaxAge)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.ClaimMaxAge)
	assert.Equal(t, 2.0, cfg.Email.NewsletterRatePerSecond)
	assert.Equal(t, "X-Cron-Secret", cfg.Cron.Header)
}

func TestNewConfigEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UPASSISTIFY_DEPLOYMENT_MODE", "api")
	t.Setenv("UPASSISTIFY_POSTGRES_MAX_OPEN_CONNS", "42")
	t.Setenv("UPASSISTIFY_STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("UPASSISTIFY_TEMPORAL_SWEEP_INTERVAL", "90s")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.ModeAPI, cfg.Deployment.Mode)
	assert.Equal(t, 42, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, 90*time.Second, cfg.Temporal.SweepInterval)
}

func TestNewConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("deployment:\n  mode: temporal_worker\nemail:\n  from_address: \"Team <team@example.com>\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.ModeTemporalWorker, cfg.Deployment.Mode)
	assert.Equal(t, "Team <team@example.com>", cfg.Email.FromAddress)
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Deployment.Mode = "consumer"
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	pg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "app", SSLMode: "disable"}
	assert.Equal(t, "user=u password=p dbname=app host=db port=5432 sslmode=disable", pg.GetDSN())
}
