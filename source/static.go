package source

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/arloliu/rolepref/types"
)

// Static implements a pool source with a fixed pool.
type Static struct {
	mu   sync.RWMutex
	pool *types.Pool
}

var _ types.PoolSource = (*Static)(nil)

// NewStatic creates a new static pool source.
//
// The source returns the same pool until Update is called. Useful for testing and for
// hosts that already hold the round's candidates in memory.
//
// Parameters:
//   - candidates: Identities with their current roles, in pass order
//   - capacity: Explicit per-role slots; nil derives capacity from current roles
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic([]types.Candidate{
//	    {Identity: "alice", Role: classd},
//	    {Identity: "bob", Role: scientist},
//	}, nil)
//	res, err := engine.AssignFrom(ctx, src)
func NewStatic(candidates []types.Candidate, capacity types.Capacity) *Static {
	s := &Static{}
	s.Update(candidates, capacity)

	return s
}

// LoadPool returns a copy of the static pool.
//
// Returns:
//   - *types.Pool: The pool
//   - error: Always nil (never fails)
func (s *Static) LoadPool(_ context.Context) (*types.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clonePool(*s.pool), nil
}

// Update replaces the pool.
//
// Parameters:
//   - candidates: New candidates
//   - capacity: New capacity table; nil derives capacity from current roles
//
// Example:
//
//	src := source.NewStatic(lobby, nil)
//	// Later: a player joins
//	src.Update(append(lobby, types.Candidate{Identity: "carol", Role: types.RoleNone}), nil)
func (s *Static) Update(candidates []types.Candidate, capacity types.Capacity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool = clonePool(types.Pool{Candidates: candidates, Capacity: capacity})
}

func clonePool(p types.Pool) *types.Pool {
	out := &types.Pool{Candidates: slices.Clone(p.Candidates)}
	if p.Capacity != nil {
		out.Capacity = maps.Clone(p.Capacity)
	}

	return out
}
