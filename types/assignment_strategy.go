package types

// Request is the input of a single assignment invocation.
type Request struct {
	// Pool lists every identity to (re)assign with its current role, in pass order.
	Pool []Candidate

	// Capacity holds the open slots per role. Nil derives capacity from the roles
	// currently held in Pool.
	Capacity Capacity

	// Records resolves identities to preference records.
	Records RecordLookup

	// Budget is the operation counter for this invocation. Nil means an exhausted budget.
	Budget *Budget
}

// Diagnostics summarizes one assignment invocation for logging and tuning.
type Diagnostics struct {
	// Strategy is the name of the strategy that produced the result.
	Strategy string `json:"strategy"`

	// Status is the final phase reached.
	Status Status `json:"status"`

	// Tries is the number of budget operations consumed.
	Tries int `json:"tries"`

	// Limit is the budget the invocation started with.
	Limit int `json:"limit"`

	// RankedCount is the number of identities with a preference record.
	RankedCount int `json:"rankedCount"`

	// Swaps is the number of swaps applied (pairwise swap only).
	Swaps int `json:"swaps"`

	// BestScore is the summed utility of the returned assignment (bounded search only).
	BestScore float64 `json:"bestScore"`

	// Satisfaction is the aggregate satisfaction of ranked identities in percent,
	// 100 meaning everyone received their first choice.
	Satisfaction float64 `json:"satisfaction"`
}

// Result is the output of an assignment invocation.
type Result struct {
	// Assignment maps every input identity to its final role.
	Assignment map[string]Role

	// Ranks holds the rank each ranked identity achieved under Assignment.
	Ranks map[string]int

	// Diagnostics describes how the result was reached.
	Diagnostics Diagnostics
}

// AssignmentStrategy calculates a capacity-respecting role assignment for a pool.
//
// Strategies implement different search algorithms:
//   - BoundedSearch: depth-first branch-and-bound over the full assignment space
//   - PairwiseSwap: incremental local search by improving swaps
//   - Custom: user-defined algorithms
//
// Strategy implementations should:
//   - Be deterministic (same input and budget → same output)
//   - Spend the request budget at fine granularity and stop once it runs out
//   - Never perform I/O or mutate preference records
//   - Be stateless between calls
type AssignmentStrategy interface {
	// Name returns the strategy identifier used in configuration and diagnostics.
	Name() string

	// Assign calculates the assignment for req.
	//
	// Parameters:
	//   - req: Pool, capacity, records and budget for this invocation
	//
	// Returns:
	//   - *Result: Total assignment respecting capacity, with diagnostics
	//   - error: ErrBudgetExceeded when no feasible assignment was found within budget
	//     (the result then carries diagnostics only), ErrInvalidPool on malformed input
	Assign(req Request) (*Result, error)
}
