package types

import "context"

// Pool is a candidate pool together with its role capacity table.
type Pool struct {
	// Candidates lists the identities to assign, in pass order.
	Candidates []Candidate

	// Capacity holds explicit per-role slots. Nil derives capacity from current roles.
	Capacity Capacity
}

// PoolSource provides the candidate pool for an assignment round.
//
// Implementations can read various inputs:
//   - Static: fixed pool for testing or embedding hosts
//   - File: YAML pool description
//   - Custom: any host-specific discovery logic
type PoolSource interface {
	// LoadPool returns the current pool.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - *Pool: Candidates and capacity
	//   - error: Discovery error (nil on success)
	LoadPool(ctx context.Context) (*Pool, error)
}
