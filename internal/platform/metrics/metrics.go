package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth rejection outcomes.
const (
	OutcomeMissingToken = "missing_token"
	OutcomeInvalidToken = "invalid_token"
	OutcomeForbidden    = "forbidden"
)

// Metrics holds all Prometheus collectors of the service. A nil *Metrics is valid
// and records nothing, which is what the service uses when METRICS_ENABLED=false.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AuthRejectionsTotal *prometheus.CounterVec
	TokensIssuedTotal   prometheus.Counter

	DonationsTotal       *prometheus.CounterVec
	DonationAmountCents  *prometheus.CounterVec
	ProductsExpiredTotal prometheus.Counter
}

// New creates the collectors and registers them, together with the Go runtime and
// process collectors, on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charity_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "charity_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charity_auth_rejections_total",
				Help: "Requests rejected by the authentication pipeline",
			},
			[]string{"outcome"},
		),
		TokensIssuedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charity_tokens_issued_total",
			Help: "Access tokens issued",
		}),
		DonationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charity_donations_total",
				Help: "Donations recorded",
			},
			[]string{"currency"},
		),
		DonationAmountCents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charity_donation_amount_cents_total",
				Help: "Sum of donated amounts in minor currency units",
			},
			[]string{"currency"},
		),
		ProductsExpiredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charity_products_expired_total",
			Help: "Products moved to expired by the expiry job",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthRejectionsTotal,
		m.TokensIssuedTotal,
		m.DonationsTotal,
		m.DonationAmountCents,
		m.ProductsExpiredTotal,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// AuthRejected counts a request halted by the auth pipeline.
func (m *Metrics) AuthRejected(outcome string) {
	if m == nil {
		return
	}
	m.AuthRejectionsTotal.WithLabelValues(outcome).Inc()
}

// TokenIssued counts a newly signed access token.
func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.TokensIssuedTotal.Inc()
}

// DonationRecorded counts a donation and its amount.
func (m *Metrics) DonationRecorded(currency string, amountCents int64) {
	if m == nil {
		return
	}
	m.DonationsTotal.WithLabelValues(currency).Inc()
	m.DonationAmountCents.WithLabelValues(currency).Add(float64(amountCents))
}

// ProductsExpired counts products expired by one job run.
func (m *Metrics) ProductsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ProductsExpiredTotal.Add(float64(n))
}
