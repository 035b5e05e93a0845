package strategy

import (
	"fmt"

	"github.com/arloliu/rolepref/types"
)

// SwapName is the configuration name of PairwiseSwap.
const SwapName = "swap"

// PairwiseSwap improves an existing assignment by exchanging roles between pairs of
// identities.
//
// Algorithm:
//  1. Visit candidates in pass order, skipping unranked ones and ones already holding
//     their first choice
//  2. For each, scan every other candidate for the first one the Comparator wants to
//     swap with
//  3. Swap the two roles and restart the scan from the beginning
//  4. Stop when a full pass finds no improving swap, or when the budget runs out
//
// Every pairwise comparison spends one budget operation. Each candidate remembers the
// roles involved in its last comparison against every other candidate, and a repeat
// comparison with unchanged roles is skipped as "no swap".
//
// Swaps never change how many identities hold each role, so the result respects
// capacity whenever the input does. Identities holding types.RoleNone are left alone.
type PairwiseSwap struct {
	catalog *types.RoleCatalog
	cfg     config
	cmp     *Comparator
}

var _ types.AssignmentStrategy = (*PairwiseSwap)(nil)

// pairKey identifies a directed comparison between two pool indexes.
type pairKey struct {
	self, other int
}

// pairRoles are the roles both sides held at their last comparison.
type pairRoles struct {
	self, other types.Role
}

// NewPairwiseSwap creates a pairwise swap strategy over catalog.
//
// Parameters:
//   - catalog: Role catalog shared with the preference records
//   - opts: Optional configuration (WithWeightMultiplier, WithDistributeToUnranked, WithOrderSeed, WithLogger)
//
// Returns:
//   - *PairwiseSwap: Initialized strategy ready for use
//
// Example:
//
//	swap := strategy.NewPairwiseSwap(catalog, strategy.WithWeightMultiplier(0.25))
//	res, err := swap.Assign(types.Request{Pool: pool, Records: store, Budget: types.NewBudget(1000)})
func NewPairwiseSwap(catalog *types.RoleCatalog, opts ...Option) *PairwiseSwap {
	cfg := newConfig(opts)

	return &PairwiseSwap{
		catalog: catalog,
		cfg:     cfg,
		cmp:     NewComparator(cfg.weight, cfg.distribute),
	}
}

// Name implements types.AssignmentStrategy.
func (s *PairwiseSwap) Name() string {
	return SwapName
}

// Assign implements types.AssignmentStrategy.
//
// The pool's current roles are the starting point and must fit the request capacity.
// Running out of budget is not an error: the partially improved assignment is returned
// with status BudgetExhausted.
func (s *PairwiseSwap) Assign(req types.Request) (*types.Result, error) {
	p, err := prepare(s.catalog, s.cfg, req)
	if err != nil {
		return nil, err
	}

	roles := p.current()
	if err := p.fits(roles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPool, err)
	}

	status, swaps := s.run(p, roles)
	res := p.result(s.catalog, roles, types.Diagnostics{
		Strategy: s.Name(),
		Status:   status,
		Swaps:    swaps,
	})

	s.cfg.logger.Debug("pairwise swap finished",
		"status", status.String(),
		"swaps", swaps,
		"tries", res.Diagnostics.Tries,
		"ranked", p.ranked,
	)

	return res, nil
}

// run applies improving swaps to roles in place.
func (s *PairwiseSwap) run(p *prepared, roles []types.Role) (types.Status, int) {
	seen := make(map[pairKey]pairRoles)
	swaps := 0
	status := types.StatusScanning

	for status == types.StatusScanning {
		i, j, ok := s.scan(p, roles, seen)
		switch {
		case ok:
			roles[i], roles[j] = roles[j], roles[i]
			swaps++
			s.cfg.logger.Debug("swapped roles",
				"identity", p.pool[i].Identity,
				"role", s.catalog.Name(roles[i]),
				"with", p.pool[j].Identity,
				"otherRole", s.catalog.Name(roles[j]),
			)
		case p.budget.Used() > p.budget.Limit():
			status = types.StatusBudgetExhausted
		default:
			status = types.StatusConverged
		}
	}

	return status, swaps
}

// scan performs one pass and returns the first improving pair.
func (s *PairwiseSwap) scan(p *prepared, roles []types.Role, seen map[pairKey]pairRoles) (int, int, bool) {
	for _, i := range p.order {
		rec := p.records[i]
		if rec == nil || !s.catalog.Contains(roles[i]) || rec.Rank(roles[i]) == 0 {
			continue
		}

		for _, j := range p.order {
			if j == i || roles[j] == roles[i] || !s.catalog.Contains(roles[j]) {
				continue
			}
			if !p.budget.Spend() {
				return 0, 0, false
			}

			state := pairRoles{self: roles[i], other: roles[j]}
			if last, ok := seen[pairKey{i, j}]; ok && last == state {
				continue
			}
			seen[pairKey{i, j}] = state
			seen[pairKey{j, i}] = pairRoles{self: roles[j], other: roles[i]}

			a := Holder{Record: rec, Role: roles[i]}
			b := Holder{Record: p.records[j], Role: roles[j]}
			if s.cmp.ShouldSwap(a, b) {
				return i, j, true
			}
		}
	}

	return 0, 0, false
}
