package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/logger"
)

// CronSecretMiddleware guards the scheduler trigger endpoints with the shared secret header.
// With no secret configured every request is refused.
func CronSecretMiddleware(cfg *config.Configuration, logger *logger.Logger) gin.HandlerFunc {
	secret := []byte(cfg.Cron.Secret)

	return func(c *gin.Context) {
		if len(secret) == 0 {
			logger.Warnw("cron endpoint called but no cron secret is configured", "path", c.Request.URL.Path)
			c.Error(ierr.NewError("cron secret not configured").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthenticated))
			c.Abort()
			return
		}

		provided := []byte(c.GetHeader(cfg.Cron.Header))
		if subtle.ConstantTimeCompare(provided, secret) != 1 {
			c.Error(ierr.NewError("invalid cron secret").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthenticated))
			c.Abort()
			return
		}
		c.Next()
	}
}
