package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "upassistify"

// Metrics holds the application collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	CouponValidations *prometheus.CounterVec
	CouponIssuance    *prometheus.CounterVec
	CouponRedemptions *prometheus.CounterVec
	NewslettersSent   prometheus.Counter
	NewslettersFailed prometheus.Counter
	PostsPublished    prometheus.Counter
	EmailsSent        *prometheus.CounterVec
	SweepDuration     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CouponValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_validations_total",
			Help:      "Coupon validation attempts by outcome.",
		}, []string{"outcome"}),
		CouponIssuance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_issuance_total",
			Help:      "Coupon creation attempts by outcome.",
		}, []string{"outcome"}),
		CouponRedemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redemptions_total",
			Help:      "Coupon redemption attempts by outcome.",
		}, []string{"outcome"}),
		NewslettersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "newsletters_sent_total",
			Help:      "Scheduled newsletters finalized as sent.",
		}),
		NewslettersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "newsletters_failed_total",
			Help:      "Scheduled newsletters finalized as failed.",
		}),
		PostsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_published_total",
			Help:      "Scheduled blog posts published by the sweeper.",
		}),
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Outgoing emails by kind and outcome.",
		}, []string{"kind", "outcome"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scheduled_content_sweep_seconds",
			Help:      "Duration of scheduled content sweeps.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CouponValidations,
		m.CouponIssuance,
		m.CouponRedemptions,
		m.NewslettersSent,
		m.NewslettersFailed,
		m.PostsPublished,
		m.EmailsSent,
		m.SweepDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSweep records the elapsed time since start
func (m *Metrics) ObserveSweep(start time.Time) {
	m.SweepDuration.Observe(time.Since(start).Seconds())
}

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
