package strategy

import (
	"fmt"

	"github.com/arloliu/rolepref/types"
)

// SearchName is the configuration name of BoundedSearch.
const SearchName = "search"

// BoundedSearch computes a fresh assignment by depth-first branch-and-bound.
//
// Each ranked identity is one level of the search tree. At every level the identity's
// preferences are tried best first, skipping roles without open capacity, so the first
// complete assignment reached is the greedy baseline. Later branches are only explored
// while their optimistic bound can still beat the best assignment found.
//
// The utility of a ranked identity holding role r is N - rating(r); the search maximizes
// the summed utility. Every branch attempt spends one budget operation. Once the budget
// runs out the best complete assignment found so far is returned with status
// BudgetExhausted. A budget that allows no operation at all fails with ErrBudgetExceeded.
//
// Unranked identities keep their current role unless WithDistributeToUnranked is set;
// then they receive the first role in canonical order with open capacity after the
// ranked identities are placed. When identities outnumber the open slots, the search
// also decides who sits out with types.RoleNone.
type BoundedSearch struct {
	catalog *types.RoleCatalog
	cfg     config
}

var _ types.AssignmentStrategy = (*BoundedSearch)(nil)

// branch is one role choice at a search level.
type branch struct {
	role    types.Role
	utility float64
}

// searchContext is the mutable state of one search invocation.
type searchContext struct {
	budget   *types.Budget
	capacity types.Capacity

	levels [][]branch  // per depth, roles best first
	suffix []float64   // suffix[d] is the best utility reachable from depth d on
	path   []types.Role // roles chosen on the current path, per depth
	score  float64

	best      []types.Role
	bestScore float64
	found     bool
	stopped   bool
}

// NewBoundedSearch creates a branch-and-bound strategy over catalog.
//
// Parameters:
//   - catalog: Role catalog shared with the preference records
//   - opts: Optional configuration (WithWeightMultiplier, WithDistributeToUnranked, WithOrderSeed, WithLogger)
//
// Returns:
//   - *BoundedSearch: Initialized strategy ready for use
//
// Example:
//
//	search := strategy.NewBoundedSearch(catalog, strategy.WithDistributeToUnranked(true))
//	res, err := search.Assign(types.Request{
//	    Pool:     pool,
//	    Capacity: types.Capacity{scientist: 2, guard: 1},
//	    Records:  store,
//	    Budget:   types.NewBudget(250000),
//	})
func NewBoundedSearch(catalog *types.RoleCatalog, opts ...Option) *BoundedSearch {
	return &BoundedSearch{catalog: catalog, cfg: newConfig(opts)}
}

// Name implements types.AssignmentStrategy.
func (s *BoundedSearch) Name() string {
	return SearchName
}

// Assign implements types.AssignmentStrategy.
func (s *BoundedSearch) Assign(req types.Request) (*types.Result, error) {
	p, err := prepare(s.catalog, s.cfg, req)
	if err != nil {
		return nil, err
	}

	roles := make([]types.Role, len(p.pool))
	capacity := p.capacity.Clone()

	// Anchors keep their role and slot before anything else is placed.
	var ranked, unranked []int
	for _, i := range p.order {
		switch {
		case p.records[i] != nil:
			ranked = append(ranked, i)
		case s.cfg.distribute:
			unranked = append(unranked, i)
		default:
			roles[i] = p.pool[i].Role
			if err := capacity.Take(roles[i]); err != nil {
				return nil, fmt.Errorf("%w: anchor %q: %w", ErrInvalidPool, p.pool[i].Identity, err)
			}
		}
	}

	if len(ranked) > 0 && p.budget.Limit() <= 0 {
		diag := types.Diagnostics{
			Strategy:    s.Name(),
			Status:      types.StatusFailed,
			Limit:       p.budget.Limit(),
			RankedCount: p.ranked,
		}

		return &types.Result{Diagnostics: diag}, fmt.Errorf("%w: no operation allowed for %d ranked identities",
			ErrBudgetExceeded, len(ranked))
	}

	sc := s.newContext(p, ranked, capacity)
	sc.descend(0)

	if len(ranked) > 0 && !sc.found {
		return &types.Result{Diagnostics: types.Diagnostics{
			Strategy:    s.Name(),
			Status:      types.StatusFailed,
			Tries:       p.budget.Used(),
			Limit:       p.budget.Limit(),
			RankedCount: p.ranked,
		}}, ErrBudgetExceeded
	}

	for depth, i := range ranked {
		roles[i] = sc.best[depth]
		_ = capacity.Take(roles[i])
	}
	for _, i := range unranked {
		roles[i] = s.firstOpen(capacity)
		_ = capacity.Take(roles[i])
	}

	status := types.StatusConverged
	if sc.stopped {
		status = types.StatusBudgetExhausted
	}

	res := p.result(s.catalog, roles, types.Diagnostics{
		Strategy:  s.Name(),
		Status:    status,
		BestScore: sc.bestScore,
	})

	s.cfg.logger.Debug("bounded search finished",
		"status", status.String(),
		"tries", res.Diagnostics.Tries,
		"ranked", p.ranked,
		"bestScore", sc.bestScore,
	)

	return res, nil
}

// newContext builds the search levels for the ranked identities.
func (s *BoundedSearch) newContext(p *prepared, ranked []int, capacity types.Capacity) *searchContext {
	n := float64(s.catalog.Len())
	sc := &searchContext{
		budget:   p.budget,
		capacity: capacity,
		levels:   make([][]branch, len(ranked)),
		suffix:   make([]float64, len(ranked)+1),
		path:     make([]types.Role, len(ranked)),
		best:     make([]types.Role, len(ranked)),
	}

	for depth, i := range ranked {
		rec := p.records[i]
		prefs := rec.Preferences()
		level := make([]branch, 0, len(prefs))
		for _, role := range prefs {
			rating, ok := rec.Rating(role, s.cfg.weight)
			if !ok {
				continue
			}
			level = append(level, branch{role: role, utility: n - rating})
		}
		sc.levels[depth] = level
	}

	for depth := len(ranked) - 1; depth >= 0; depth-- {
		top := 0.0
		for _, b := range sc.levels[depth] {
			top = max(top, b.utility)
		}
		sc.suffix[depth] = sc.suffix[depth+1] + top
	}

	return sc
}

// firstOpen returns the first catalog role with open capacity, or types.RoleNone.
func (s *BoundedSearch) firstOpen(capacity types.Capacity) types.Role {
	for _, role := range s.catalog.Roles() {
		if capacity.Remaining(role) > 0 {
			return role
		}
	}

	return types.RoleNone
}

// descend explores every assignment of the identities at depth and below.
func (c *searchContext) descend(depth int) {
	if depth == len(c.levels) {
		c.complete()
		return
	}
	if c.found && c.score+c.suffix[depth] <= c.bestScore+epsilon {
		return
	}

	for _, b := range c.levels[depth] {
		if c.capacity.Remaining(b.role) <= 0 {
			continue
		}
		if !c.try(depth, b) {
			return
		}
	}

	// Someone has to sit out when identities outnumber the open slots.
	if len(c.levels)-depth > c.capacity.Total() {
		c.try(depth, branch{role: types.RoleNone})
	}
}

// try explores one branch and reports whether the search goes on.
func (c *searchContext) try(depth int, b branch) bool {
	if !c.budget.Spend() && c.found {
		c.stopped = true
		return false
	}

	_ = c.capacity.Take(b.role)
	c.path[depth] = b.role
	c.score += b.utility

	c.descend(depth + 1)

	c.score -= b.utility
	c.capacity.Release(b.role)

	return !c.stopped
}

// complete records the current path when it beats the best assignment.
func (c *searchContext) complete() {
	if c.found && c.score <= c.bestScore+epsilon {
		return
	}

	copy(c.best, c.path)
	c.bestScore = c.score
	c.found = true
}
