// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "findash"

type Metrics struct {
	DebtCalculations    *prometheus.CounterVec
	DebtCacheHits       prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RecurringProcessed  prometheus.Counter
	TransactionsPosted  prometheus.Counter

	gatherer prometheus.Gatherer
}

// New builds the collectors and registers them on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		DebtCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debt_calculations_total",
			Help:      "Debt plan calculations by result status.",
		}, []string{"mode", "status"}),
		DebtCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debt_calculation_cache_hits_total",
			Help:      "Debt plan calculations served from cache.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RecurringProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_items_processed_total",
			Help:      "Recurring items that had at least one due period posted.",
		}),
		TransactionsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_transactions_posted_total",
			Help:      "Ledger transactions created from recurring items.",
		}),
		gatherer: reg,
	}

	collectors := []prometheus.Collector{
		m.DebtCalculations,
		m.DebtCacheHits,
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.RecurringProcessed,
		m.TransactionsPosted,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCalculation(mode, status string) {
	if m == nil {
		return
	}
	m.DebtCalculations.WithLabelValues(mode, status).Inc()
}

func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.DebtCacheHits.Inc()
}

func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveProcessed(items, transactions int) {
	if m == nil {
		return
	}
	m.RecurringProcessed.Add(float64(items))
	m.TransactionsPosted.Add(float64(transactions))
}
