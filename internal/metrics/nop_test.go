package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rolepref/types"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_EngineMetrics(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordAssignment("search", types.StatusConverged, 0.01)
		metrics.RecordAssignment("", types.Status(999), -1)
		metrics.RecordTries("swap", 42)
		metrics.RecordSatisfaction("search", 87.5)
		metrics.RecordSwaps(3)
		metrics.RecordBudgetExhausted("search", true)
	})
}

func TestNopMetrics_StoreMetrics(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordRecordRepaired()
		metrics.RecordStoreSize(10)
		metrics.RecordStorageOperation("save", 0.002, false)
	})
}

func BenchmarkNopMetrics(b *testing.B) {
	metrics := NewNop()

	for b.Loop() {
		metrics.RecordAssignment("search", types.StatusConverged, 0.01)
	}
}
