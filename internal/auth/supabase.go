package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/nedpals/supabase-go"
	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

// supabaseAuth verifies access tokens locally when the project JWT secret is
// configured and falls back to asking the auth backend otherwise.
type supabaseAuth struct {
	secret string
	client *supabase.Client
}

func NewSupabaseAuth(cfg *config.Configuration) Provider {
	s := &supabaseAuth{secret: cfg.Auth.Secret}
	if cfg.Auth.Supabase.BaseURL != "" {
		s.client = supabase.CreateClient(cfg.Auth.Supabase.BaseURL, cfg.Auth.Supabase.ServiceKey)
	}
	return s
}

func (s *supabaseAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ierr.NewError("empty token").
			WithHint("Unauthorized").
			Mark(ierr.ErrUnauthenticated)
	}

	if s.secret != "" {
		return s.parseLocal(token)
	}

	if s.client == nil {
		return nil, ierr.NewError("no token verifier configured").
			WithHint("Unauthorized").
			Mark(ierr.ErrUnauthenticated)
	}

	u, err := s.client.Auth.User(ctx, token)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unauthorized").
			Mark(ierr.ErrUnauthenticated)
	}

	return &Claims{UserID: u.ID, Email: u.Email}, nil
}

func (s *supabaseAuth) parseLocal(token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewErrorf("unexpected signing method: %v", t.Header["alg"]).
				Mark(ierr.ErrUnauthenticated)
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unauthorized").
			Mark(ierr.ErrUnauthenticated)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Unauthorized").
			Mark(ierr.ErrUnauthenticated)
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, ierr.NewError("token missing subject").
			WithHint("Unauthorized").
			Mark(ierr.ErrUnauthenticated)
	}

	email, _ := claims["email"].(string)
	return &Claims{UserID: userID, Email: email}, nil
}
