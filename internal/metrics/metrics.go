package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExchangeMetrics tracks how exchange rates are resolved.
// A nil *ExchangeMetrics is valid and records nothing.
type ExchangeMetrics struct {
	// Provider calls by outcome (success/failure)
	ProviderRequestsTotal *prometheus.CounterVec
	ProviderDuration      *prometheus.HistogramVec

	// Cache lookups by backend and result (hit/miss)
	CacheLookupsTotal *prometheus.CounterVec
	// Cache backend failures by backend and operation (get/set/ping)
	CacheErrorsTotal *prometheus.CounterVec

	// Resolved rates by source (fixed/cache/<provider>)
	RateResolutionsTotal *prometheus.CounterVec
	RateUnavailableTotal prometheus.Counter
}

// NewExchangeMetrics registers the exchange metrics with reg.
func NewExchangeMetrics(reg prometheus.Registerer) *ExchangeMetrics {
	factory := promauto.With(reg)
	return &ExchangeMetrics{
		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_provider_requests_total",
				Help: "Exchange rate provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "exchange_provider_request_duration_seconds",
				Help:    "Exchange rate provider call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms .. 6.4s
			},
			[]string{"provider"},
		),
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_cache_lookups_total",
				Help: "Exchange rate cache lookups by backend and result",
			},
			[]string{"backend", "result"},
		),
		CacheErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_cache_errors_total",
				Help: "Exchange rate cache backend errors by operation",
			},
			[]string{"backend", "operation"},
		),
		RateResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_resolutions_total",
				Help: "Successful exchange rate lookups by source",
			},
			[]string{"source"},
		),
		RateUnavailableTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "exchange_rate_unavailable_total",
				Help: "Lookups that failed because every provider failed",
			},
		),
	}
}

// RecordProviderCall records one provider call and its latency.
func (m *ExchangeMetrics) RecordProviderCall(provider string, durationSeconds float64, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordCacheLookup records a hit or miss on a cache backend.
func (m *ExchangeMetrics) RecordCacheLookup(backend string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

// RecordCacheError records a failed cache backend operation.
func (m *ExchangeMetrics) RecordCacheError(backend, operation string) {
	if m == nil {
		return
	}
	m.CacheErrorsTotal.WithLabelValues(backend, operation).Inc()
}

// RecordResolution records where a successful lookup got its rate.
func (m *ExchangeMetrics) RecordResolution(source string) {
	if m == nil {
		return
	}
	m.RateResolutionsTotal.WithLabelValues(source).Inc()
}

// RecordUnavailable records a lookup where no source produced a rate.
func (m *ExchangeMetrics) RecordUnavailable() {
	if m == nil {
		return
	}
	m.RateUnavailableTotal.Inc()
}
