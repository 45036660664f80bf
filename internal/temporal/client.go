package temporal

import (
	"context"
	"crypto/tls"

	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/logger"
	"go.temporal.io/sdk/client"
)

// APIKeyProvider provides headers for API key authentication
type APIKeyProvider struct {
	APIKey    string
	Namespace string
}

// GetHeaders implements client.HeadersProvider
func (a *APIKeyProvider) GetHeaders(_ context.Context) (map[string]string, error) {
	return map[string]string{
		"Authorization":      "Bearer " + a.APIKey,
		"temporal-namespace": a.Namespace,
	}, nil
}

// TemporalClient wraps the Temporal SDK client for application use.
type TemporalClient struct {
	Client client.Client
}

// NewTemporalClient dials the Temporal frontend described by the configuration.
func NewTemporalClient(cfg *config.Configuration, log *logger.Logger) (*TemporalClient, error) {
	tc := cfg.Temporal

	clientOptions := client.Options{
		HostPort:  tc.Address,
		Namespace: tc.Namespace,
		Logger:    log.GetTemporalLogger(),
	}

	if tc.APIKey != "" {
		clientOptions.HeadersProvider = &APIKeyProvider{
			APIKey:    tc.APIKey,
			Namespace: tc.Namespace,
		}
	}

	if tc.TLS {
		clientOptions.ConnectionOptions.TLS = &tls.Config{}
	}

	c, err := client.Dial(clientOptions)
	if err != nil {
		log.Errorw("failed to create temporal client", "address", tc.Address, "error", err)
		return nil, err
	}

	log.Infow("temporal client created", "address", tc.Address, "namespace", tc.Namespace)
	return &TemporalClient{Client: c}, nil
}

// Close closes the underlying connection
func (c *TemporalClient) Close() {
	if c != nil && c.Client != nil {
		c.Client.Close()
	}
}
