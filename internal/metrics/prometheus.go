package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rolepref/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// collector that is never exercised leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Engine metrics
	assignments     *prometheus.CounterVec
	assignDuration  *prometheus.HistogramVec
	tries           *prometheus.HistogramVec
	satisfaction    *prometheus.GaugeVec
	swaps           prometheus.Histogram
	budgetExhausted *prometheus.CounterVec

	// Store metrics
	repairs        prometheus.Counter
	storeSize      prometheus.Gauge
	storageOps     *prometheus.CounterVec
	storageLatency *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "rolepref" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rolepref"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "assignments_total",
			Help:      "Total assignment invocations by strategy and final status.",
		}, []string{"strategy", "status"})

		p.assignDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "assignment_duration_seconds",
			Help:      "Duration of assignment invocations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2.5, 10), // 100µs .. ~0.4s
		}, []string{"strategy"})

		p.tries = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "tries",
			Help:      "Budget operations consumed per assignment invocation.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 9), // 10 .. ~650k
		}, []string{"strategy"})

		p.satisfaction = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "satisfaction_percent",
			Help:      "Aggregate satisfaction of ranked identities in the latest round.",
		}, []string{"strategy"})

		p.swaps = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "swaps",
			Help:      "Swaps applied per pairwise swap invocation.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		})

		p.budgetExhausted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "budget_exhausted_total",
			Help:      "Invocations that ran out of budget, by strategy and whether input was kept.",
		}, []string{"strategy", "degraded"})

		p.repairs = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "records_repaired_total",
			Help:      "Total corrupt records repaired while loading.",
		})

		p.storeSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "records",
			Help:      "Current number of records held in memory.",
		})

		p.storageOps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "storage_operations_total",
			Help:      "Total storage backend operations by operation and result.",
		}, []string{"operation", "result"})

		p.storageLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "storage_latency_seconds",
			Help:      "Latency of storage backend operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		}, []string{"operation"})

		p.reg.MustRegister(p.assignments)
		p.reg.MustRegister(p.assignDuration)
		p.reg.MustRegister(p.tries)
		p.reg.MustRegister(p.satisfaction)
		p.reg.MustRegister(p.swaps)
		p.reg.MustRegister(p.budgetExhausted)
		p.reg.MustRegister(p.repairs)
		p.reg.MustRegister(p.storeSize)
		p.reg.MustRegister(p.storageOps)
		p.reg.MustRegister(p.storageLatency)
	})
}

// EngineMetrics implementation

// RecordAssignment counts the invocation and observes its duration.
func (p *PrometheusCollector) RecordAssignment(strategy string, status types.Status, duration float64) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(strategy, status.String()).Inc()
	p.assignDuration.WithLabelValues(strategy).Observe(duration)
}

// RecordTries observes the budget operations consumed.
func (p *PrometheusCollector) RecordTries(strategy string, tries int) {
	p.ensureRegistered()
	p.tries.WithLabelValues(strategy).Observe(float64(tries))
}

// RecordSatisfaction sets the satisfaction gauge.
func (p *PrometheusCollector) RecordSatisfaction(strategy string, percent float64) {
	p.ensureRegistered()
	p.satisfaction.WithLabelValues(strategy).Set(percent)
}

// RecordSwaps observes the swaps applied.
func (p *PrometheusCollector) RecordSwaps(count int) {
	p.ensureRegistered()
	p.swaps.Observe(float64(count))
}

// RecordBudgetExhausted counts a budget exhaustion.
func (p *PrometheusCollector) RecordBudgetExhausted(strategy string, degraded bool) {
	p.ensureRegistered()
	p.budgetExhausted.WithLabelValues(strategy, strconv.FormatBool(degraded)).Inc()
}

// StoreMetrics implementation

// RecordRecordRepaired counts a repaired record.
func (p *PrometheusCollector) RecordRecordRepaired() {
	p.ensureRegistered()
	p.repairs.Inc()
}

// RecordStoreSize sets the store size gauge.
func (p *PrometheusCollector) RecordStoreSize(count int) {
	p.ensureRegistered()
	p.storeSize.Set(float64(count))
}

// RecordStorageOperation counts a storage operation and observes its latency.
func (p *PrometheusCollector) RecordStorageOperation(operation string, duration float64, success bool) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "failure"
	}
	p.storageOps.WithLabelValues(operation, result).Inc()
	p.storageLatency.WithLabelValues(operation).Observe(duration)
}
