// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/rolepref/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	engine, err := rolepref.NewEngine(cfg, store, rolepref.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// EngineMetrics implementation

// RecordAssignment discards the assignment metric.
func (n *NopMetrics) RecordAssignment(_ /* strategy */ string, _ /* status */ types.Status, _ /* duration */ float64) {
	// No-op
}

// RecordTries discards the tries metric.
func (n *NopMetrics) RecordTries(_ /* strategy */ string, _ /* tries */ int) {
	// No-op
}

// RecordSatisfaction discards the satisfaction metric.
func (n *NopMetrics) RecordSatisfaction(_ /* strategy */ string, _ /* percent */ float64) {
	// No-op
}

// RecordSwaps discards the swap count metric.
func (n *NopMetrics) RecordSwaps(_ /* count */ int) {
	// No-op
}

// RecordBudgetExhausted discards the budget exhaustion metric.
func (n *NopMetrics) RecordBudgetExhausted(_ /* strategy */ string, _ /* degraded */ bool) {
	// No-op
}

// StoreMetrics implementation

// RecordRecordRepaired discards the repair metric.
func (n *NopMetrics) RecordRecordRepaired() {
	// No-op
}

// RecordStoreSize discards the store size metric.
func (n *NopMetrics) RecordStoreSize(_ /* count */ int) {
	// No-op
}

// RecordStorageOperation discards the storage operation metric.
func (n *NopMetrics) RecordStorageOperation(_ /* operation */ string, _ /* duration */ float64, _ /* success */ bool) {
	// No-op
}
