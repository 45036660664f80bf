package auth

import (
	"context"

	"github.com/upassistify/upassistify/internal/config"
)

// Claims identify the caller behind a bearer token
type Claims struct {
	UserID string
	Email  string
}

// Provider validates bearer tokens issued by the identity backend
type Provider interface {
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

func NewProvider(cfg *config.Configuration) Provider {
	return NewSupabaseAuth(cfg)
}
