package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	m := New()

	m.CouponValidations.WithLabelValues(OutcomeSuccess).Inc()
	m.CouponValidations.WithLabelValues(OutcomeRejected).Add(2)
	m.NewslettersSent.Inc()
	m.ObserveSweep(time.Now().Add(-time.Second))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CouponValidations.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NewslettersSent))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "upassistify_coupon_validations_total")
	assert.Contains(t, rec.Body.String(), "upassistify_scheduled_content_sweep_seconds_count 1")
}
