package types

// Status represents the phase or outcome of an assignment run.
//
// The pairwise swap optimizer moves through:
//
//	StatusScanning → (StatusSwapFound → StatusScanning) → StatusConverged
//
// Either strategy may end in StatusBudgetExhausted (best-so-far result kept) or
// StatusFailed (no feasible assignment within budget; input left unchanged).
type Status int

const (
	// StatusScanning indicates a pass over the candidates is in progress.
	StatusScanning Status = iota

	// StatusSwapFound indicates an improving swap was applied and the scan restarts.
	StatusSwapFound

	// StatusConverged indicates the run finished without exhausting its budget.
	StatusConverged

	// StatusBudgetExhausted indicates the budget ran out; the best result found is kept.
	StatusBudgetExhausted

	// StatusFailed indicates no feasible assignment was found within budget.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusScanning:
		return "Scanning"
	case StatusSwapFound:
		return "SwapFound"
	case StatusConverged:
		return "Converged"
	case StatusBudgetExhausted:
		return "BudgetExhausted"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
