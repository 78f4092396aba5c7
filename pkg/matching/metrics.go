package matching

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects optional Prometheus counters for an Exchange. Nil by
// default: NewExchange never registers anything on its own, since a
// library has no business owning a global registry. Callers that want
// metrics construct one with NewMetrics and pass it via WithMetrics.
type Metrics struct {
	ordersSubmitted  *prometheus.CounterVec
	ordersCancelled  prometheus.Counter
	ordersRejected   prometheus.Counter
	tradesExecuted   prometheus.Counter
	stopsTriggered   prometheus.Counter
	pendingStopGauge prometheus.Gauge
}

// NewMetrics builds a Metrics instance and registers its collectors
// with registry.
func NewMetrics(registry prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		ordersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Total number of orders submitted, by side.",
		}, []string{"side"}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Total number of successful order cancellations.",
		}),
		ordersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Total number of FOK orders rejected for infeasibility.",
		}),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_executed_total",
			Help:      "Total number of trades executed.",
		}),
		stopsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stops_triggered_total",
			Help:      "Total number of stop and trailing-stop orders triggered.",
		}),
		pendingStopGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stops_pending",
			Help:      "Current number of pending stop orders.",
		}),
	}
	registry.MustRegister(
		m.ordersSubmitted,
		m.ordersCancelled,
		m.ordersRejected,
		m.tradesExecuted,
		m.stopsTriggered,
		m.pendingStopGauge,
	)
	return m
}

func (m *Metrics) recordSubmit(side string) {
	if m == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(side).Inc()
}

func (m *Metrics) recordReject() {
	if m == nil {
		return
	}
	m.ordersRejected.Inc()
}

func (m *Metrics) recordCancel() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
}

func (m *Metrics) recordTrades(n int) {
	if m == nil || n == 0 {
		return
	}
	m.tradesExecuted.Add(float64(n))
}

func (m *Metrics) recordStopTriggered(pending int) {
	if m == nil {
		return
	}
	m.stopsTriggered.Inc()
	m.pendingStopGauge.Set(float64(pending))
}
