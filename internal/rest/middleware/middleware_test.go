package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/rejected", func(c *gin.Context) {
		c.Error(ierr.NewError("limit reached").
			WithHint("This coupon has reached its maximum usage limit").
			WithReportableDetails(map[string]any{"reason": "usage_limit_reached"}).
			Mark(ierr.ErrInvalidOperation))
	})
	r.GET("/upstream", func(c *gin.Context) {
		c.Error(ierr.NewError("stripe: connection refused").Mark(ierr.ErrHTTPClient))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/rejected", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "This coupon has reached its maximum usage limit", body.Error)
	assert.Equal(t, "usage_limit_reached", body.Details["reason"])

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/upstream", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, unexpectedErrorMessage, body.Error)
}

func TestCronSecretMiddleware(t *testing.T) {
	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()

	newEngine := func() *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler())
		r.POST("/sweep", CronSecretMiddleware(cfg, log), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	// no secret configured refuses everything
	req := httptest.NewRequest(http.MethodPost, "/sweep", nil)
	req.Header.Set(cfg.Cron.Header, "")
	assert.Equal(t, http.StatusUnauthorized, serve(newEngine(), req).Code)

	cfg.Cron.Secret = "s3cret"
	req = httptest.NewRequest(http.MethodPost, "/sweep", nil)
	req.Header.Set(cfg.Cron.Header, "s3cret")
	assert.Equal(t, http.StatusNoContent, serve(newEngine(), req).Code)

	req = httptest.NewRequest(http.MethodPost, "/sweep", nil)
	req.Header.Set(cfg.Cron.Header, "s3cre")
	assert.Equal(t, http.StatusUnauthorized, serve(newEngine(), req).Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, types.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(types.HeaderRequestID, "req-123")
	rec := serve(r, req)
	assert.Equal(t, "req-123", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(types.HeaderRequestID))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Body.String())
}
