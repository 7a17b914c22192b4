package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle, stock and dashboard cache activity.
type OrderMetrics struct {
	transitions *prometheus.CounterVec
	txFailures  *prometheus.CounterVec
	txDuration  *prometheus.HistogramVec
	stock       *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Committed order status transitions.",
	}, []string{"from", "to"})
	txFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transactions_failed_total",
		Help: "Order mutations rolled back because of a store failure.",
	}, []string{"op"})
	txDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_tx_duration_seconds",
		Help:    "Duration of order mutation transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	stock := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Product stock adjustments by direction.",
	}, []string{"direction"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_cache_requests_total",
		Help: "Dashboard cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(transitions, txFailures, txDuration, stock, cache)
	return &OrderMetrics{
		transitions: transitions,
		txFailures:  txFailures,
		txDuration:  txDuration,
		stock:       stock,
		cache:       cache,
	}
}

// ObserveTransition counts a committed status change.
func (m *OrderMetrics) ObserveTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// ObserveTxFailure counts a rolled back order mutation.
func (m *OrderMetrics) ObserveTxFailure(op string) {
	if m == nil || m.txFailures == nil {
		return
	}
	m.txFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveTxDuration records how long an order transaction took.
func (m *OrderMetrics) ObserveTxDuration(op string, d time.Duration) {
	if m == nil || m.txDuration == nil {
		return
	}
	m.txDuration.WithLabelValues(normalizeLabel(op)).Observe(d.Seconds())
}

// ObserveStockAdjustment counts a stock movement.
func (m *OrderMetrics) ObserveStockAdjustment(direction string) {
	if m == nil || m.stock == nil {
		return
	}
	m.stock.WithLabelValues(normalizeLabel(direction)).Inc()
}

// ObserveCache counts a dashboard cache hit or miss.
func (m *OrderMetrics) ObserveCache(result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
