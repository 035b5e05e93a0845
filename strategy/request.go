package strategy

import (
	"fmt"

	"github.com/arloliu/rolepref/internal/hash"
	"github.com/arloliu/rolepref/types"
)

// prepared is the validated form of a types.Request shared by both strategies.
type prepared struct {
	pool     []types.Candidate
	records  []types.PreferenceRecord // parallel to pool; nil entries are unranked
	capacity types.Capacity
	budget   *types.Budget
	order    []int // pass order over pool indexes
	ranked   int
}

// prepare validates req against catalog and resolves its records.
//
// Capacity defaults to the roles currently held in the pool and is always cloned, so
// strategies may consume it freely. A nil budget is treated as already exhausted.
func prepare(catalog *types.RoleCatalog, cfg config, req types.Request) (*prepared, error) {
	p := &prepared{
		pool:    req.Pool,
		records: make([]types.PreferenceRecord, len(req.Pool)),
		budget:  req.Budget,
	}
	if p.budget == nil {
		p.budget = types.NewBudget(0)
	}

	seen := make(map[string]struct{}, len(req.Pool))
	ids := make([]string, len(req.Pool))
	for i, c := range req.Pool {
		if c.Identity == "" {
			return nil, fmt.Errorf("%w: empty identity at position %d", ErrInvalidPool, i)
		}
		if _, dup := seen[c.Identity]; dup {
			return nil, fmt.Errorf("%w: duplicate identity %q", ErrInvalidPool, c.Identity)
		}
		seen[c.Identity] = struct{}{}
		ids[i] = c.Identity

		if c.Role != types.RoleNone && !catalog.Contains(c.Role) {
			return nil, fmt.Errorf("%w: identity %q holds %w %d", ErrInvalidPool, c.Identity, types.ErrUnknownRole, int(c.Role))
		}

		if req.Records == nil {
			continue
		}
		rec, ok := req.Records.Lookup(c.Identity)
		if !ok || rec == nil {
			continue
		}
		if rec.Len() != catalog.Len() {
			return nil, fmt.Errorf("%w: record of %q ranks %d roles, catalog has %d",
				ErrInvalidPool, c.Identity, rec.Len(), catalog.Len())
		}
		p.records[i] = rec
		p.ranked++
	}

	if req.Capacity == nil {
		p.capacity = types.CapacityFromPool(req.Pool)
	} else {
		p.capacity = req.Capacity.Clone()
		for role, n := range p.capacity {
			if n < 0 {
				return nil, fmt.Errorf("%w: negative capacity %d for role %s", ErrInvalidPool, n, catalog.Name(role))
			}
			if role != types.RoleNone && !catalog.Contains(role) {
				return nil, fmt.Errorf("%w: capacity for %w %d", ErrInvalidPool, types.ErrUnknownRole, int(role))
			}
		}
	}

	p.order = passOrder(ids, cfg.orderSeed)

	return p, nil
}

// passOrder returns the pool indexes in visiting order: pool order for a zero seed,
// otherwise ordered by the seeded identity hash.
func passOrder(ids []string, seed uint64) []int {
	if seed != 0 {
		return hash.Order(ids, seed)
	}

	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}

	return order
}

// current returns the roles currently held by the pool.
func (p *prepared) current() []types.Role {
	roles := make([]types.Role, len(p.pool))
	for i, c := range p.pool {
		roles[i] = c.Role
	}

	return roles
}

// fits reports whether roles respect the prepared capacity.
func (p *prepared) fits(roles []types.Role) error {
	remaining := p.capacity.Clone()
	for i, role := range roles {
		if err := remaining.Take(role); err != nil {
			return fmt.Errorf("identity %q: %w", p.pool[i].Identity, err)
		}
	}

	return nil
}

// result builds the strategy result for roles, filling ranks and satisfaction into diag.
func (p *prepared) result(catalog *types.RoleCatalog, roles []types.Role, diag types.Diagnostics) *types.Result {
	res := &types.Result{
		Assignment: make(map[string]types.Role, len(p.pool)),
		Ranks:      make(map[string]int, p.ranked),
	}

	for i, c := range p.pool {
		res.Assignment[c.Identity] = roles[i]
		if rec := p.records[i]; rec != nil {
			if rank := rec.Rank(roles[i]); rank >= 0 {
				res.Ranks[c.Identity] = rank
			}
		}
	}

	diag.RankedCount = p.ranked
	diag.Limit = p.budget.Limit()
	diag.Tries = p.budget.Used()
	diag.Satisfaction = Satisfaction(catalog.Len(), p.ranked, res.Ranks)
	res.Diagnostics = diag

	return res
}

// Satisfaction returns the aggregate satisfaction of ranked identities in percent.
//
// Each ranked identity contributes N - rank, and identities that ended up outside their
// ranked set contribute nothing. 100 means every ranked identity got its first choice.
//
// Parameters:
//   - n: Number of ranked roles in the catalog
//   - ranked: Number of ranked identities in the pool
//   - ranks: Achieved rank per identity
//
// Returns:
//   - float64: Satisfaction in [0, 100]; 0 when nobody is ranked
func Satisfaction(n, ranked int, ranks map[string]int) float64 {
	if n <= 0 || ranked <= 0 {
		return 0
	}

	sum := 0
	for _, rank := range ranks {
		sum += n - rank
	}

	return float64(sum) * 100 / float64(n*ranked)
}
