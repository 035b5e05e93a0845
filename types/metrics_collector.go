package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	EngineMetrics
	StoreMetrics
}

// EngineMetrics defines metrics for assignment invocations.
type EngineMetrics interface {
	// RecordAssignment records a finished assignment invocation.
	//
	// Parameters:
	//   - strategy: Strategy name ("search", "swap")
	//   - status: Final status of the run
	//   - duration: Time taken in seconds
	RecordAssignment(strategy string, status Status, duration float64)

	// RecordTries records the budget operations consumed by one invocation.
	RecordTries(strategy string, tries int)

	// RecordSatisfaction sets the satisfaction percentage of the latest round (gauge metric).
	RecordSatisfaction(strategy string, percent float64)

	// RecordSwaps records the swaps applied by the pairwise swap optimizer.
	RecordSwaps(count int)

	// RecordBudgetExhausted records an invocation that ran out of budget.
	//
	// Parameters:
	//   - strategy: Strategy name
	//   - degraded: true if no feasible assignment was found and the input was kept
	RecordBudgetExhausted(strategy string, degraded bool)
}

// StoreMetrics defines metrics for the preference record store.
type StoreMetrics interface {
	// RecordRecordRepaired records a corrupt record that was repaired on load.
	RecordRecordRepaired()

	// RecordStoreSize sets the number of records held in memory (gauge metric).
	RecordStoreSize(count int)

	// RecordStorageOperation records a storage backend operation.
	//
	// Parameters:
	//   - operation: Operation type ("load", "save", "delete", "list")
	//   - duration: Time taken in seconds
	//   - success: true if the operation succeeded
	RecordStorageOperation(operation string, duration float64, success bool)
}
