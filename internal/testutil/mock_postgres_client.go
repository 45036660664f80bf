package testutil

import (
	"context"

	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

// MockPostgresClient runs transactional functions directly
type MockPostgresClient struct {
	logger  *logger.Logger
	pingErr error
}

func NewMockPostgresClient(logger *logger.Logger) postgres.IClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (c *MockPostgresClient) Ping(context.Context) error {
	return c.pingErr
}

// FailPing makes Ping return err
func (c *MockPostgresClient) FailPing(err error) {
	c.pingErr = err
}
