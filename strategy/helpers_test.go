package strategy

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rolepref/record"
	"github.com/arloliu/rolepref/types"
)

const (
	roleA types.Role = iota
	roleB
	roleC
	roleD
	roleE
)

// recordMap is a RecordLookup over concrete records.
type recordMap map[string]*record.Record

func (m recordMap) Lookup(identity string) (types.PreferenceRecord, bool) {
	rec, ok := m[identity]
	if !ok {
		return nil, false
	}

	return rec, true
}

// randomPool builds n ranked identities with shuffled preferences holding roles
// round-robin over the catalog.
func randomPool(catalog *types.RoleCatalog, n int, seed uint64) ([]types.Candidate, recordMap) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pool := make([]types.Candidate, n)
	records := make(recordMap, n)
	for i := range n {
		id := fmt.Sprintf("player-%02d", i)
		pool[i] = types.Candidate{Identity: id, Role: types.Role(i % catalog.Len())}
		rec := record.NewShuffled(catalog, rng)
		rec.UpdateAverage(rng.IntN(catalog.Len()), 5)
		records[id] = rec
	}

	return pool, records
}

// requireValidAssignment checks totality and capacity of res.
func requireValidAssignment(t *testing.T, pool []types.Candidate, capacity types.Capacity, res *types.Result) {
	t.Helper()

	require.Len(t, res.Assignment, len(pool))
	counts := make(map[types.Role]int)
	for _, c := range pool {
		role, ok := res.Assignment[c.Identity]
		require.True(t, ok, "identity %s missing from assignment", c.Identity)
		if role != types.RoleNone {
			counts[role]++
		}
	}
	for role, n := range counts {
		require.LessOrEqual(t, n, capacity[role], "role %d over capacity", role)
	}
}

func rankSum(res *types.Result) int {
	sum := 0
	for _, rank := range res.Ranks {
		sum += rank
	}

	return sum
}
