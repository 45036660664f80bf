package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/auth"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
	"github.com/upassistify/upassistify/internal/types"
)

const bearerPrefix = "Bearer "

// AuthenticateMiddleware resolves the bearer token in the Authorization header
// to a backend user and stores the user ID and email in the request context
func AuthenticateMiddleware(provider auth.Provider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			c.Error(ierr.NewError("missing authorization header").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthenticated))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.Error(ierr.NewError("authorization header is not a bearer token").
				WithHint("Invalid authorization header format").
				Mark(ierr.ErrUnauthenticated))
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)
		claims, err := provider.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			c.Error(err)
			c.Abort()
			return
		}

		if claims == nil || claims.UserID == "" {
			c.Error(ierr.NewError("token carries no user").
				WithHint("Invalid token claims").
				Mark(ierr.ErrUnauthenticated))
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetUserID(ctx, claims.UserID)
		ctx = types.SetUserEmail(ctx, claims.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminMiddleware lets the request through only when the authenticated user holds the admin role.
// It must run after AuthenticateMiddleware.
func AdminMiddleware(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.RequireAdmin(c.Request.Context()); err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
