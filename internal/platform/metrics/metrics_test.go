package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.AuthRejected(OutcomeMissingToken)
	m.AuthRejected(OutcomeMissingToken)
	m.AuthRejected(OutcomeForbidden)
	m.DonationRecorded("USD", 2500)
	m.DonationRecorded("USD", 500)
	m.ProductsExpired(3)
	m.ProductsExpired(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthRejectionsTotal.WithLabelValues(OutcomeMissingToken)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthRejectionsTotal.WithLabelValues(OutcomeForbidden)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DonationsTotal.WithLabelValues("USD")))
	assert.Equal(t, 3000.0, testutil.ToFloat64(m.DonationAmountCents.WithLabelValues("USD")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ProductsExpiredTotal))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AuthRejected(OutcomeInvalidToken)
		m.ObserveRequest("GET", "/health", "200", 0.01)
		m.TokenIssued()
		m.DonationRecorded("USD", 1)
		m.ProductsExpired(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/products", "200", 0.02)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `charity_http_requests_total{method="GET",path="/api/v1/products",status="200"} 1`)
}
