package testing

import (
	"testing"

	"github.com/arloliu/rolepref/record"
	"github.com/arloliu/rolepref/types"
)

// Catalog builds a role catalog from names, failing the test on error.
func Catalog(t *testing.T, names ...string) *types.RoleCatalog {
	t.Helper()

	c, err := types.NewRoleCatalog(names...)
	if err != nil {
		t.Fatalf("Failed to build role catalog: %v", err)
	}

	return c
}

// Records is a map-backed types.RecordLookup for strategy and engine tests.
type Records struct {
	t       *testing.T
	catalog *types.RoleCatalog
	records map[string]*record.Record
}

var _ types.RecordLookup = (*Records)(nil)

// NewRecords creates an empty lookup over catalog.
func NewRecords(t *testing.T, catalog *types.RoleCatalog) *Records {
	return &Records{t: t, catalog: catalog, records: make(map[string]*record.Record)}
}

// With adds a record for identity with the given preference order and returns r.
//
// Example:
//
//	records := rolepreftest.NewRecords(t, catalog).
//	    With("p1", 1, 0).
//	    With("p2", 0, 1)
func (r *Records) With(identity string, prefs ...types.Role) *Records {
	r.t.Helper()

	rec, err := record.New(r.catalog, prefs)
	if err != nil {
		r.t.Fatalf("Failed to build record for %s: %v", identity, err)
	}
	r.records[identity] = rec

	return r
}

// WithAverage adds a record like With and folds the given ranks into its average.
func (r *Records) WithAverage(identity string, ranks []int, prefs ...types.Role) *Records {
	r.t.Helper()

	r.With(identity, prefs...)
	for _, rank := range ranks {
		r.records[identity].UpdateAverage(rank, len(ranks))
	}

	return r
}

// Lookup implements types.RecordLookup.
func (r *Records) Lookup(identity string) (types.PreferenceRecord, bool) {
	rec, ok := r.records[identity]
	if !ok {
		return nil, false
	}

	return rec, true
}

// Get returns the concrete record for identity, or nil.
func (r *Records) Get(identity string) *record.Record {
	return r.records[identity]
}

// Pool builds a candidate pool from alternating identity and role arguments.
//
// Example:
//
//	pool := rolepreftest.Pool("p1", types.Role(0), "p2", types.Role(1))
func Pool(pairs ...any) []types.Candidate {
	pool := make([]types.Candidate, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		pool = append(pool, types.Candidate{
			Identity: pairs[i].(string),
			Role:     pairs[i+1].(types.Role),
		})
	}

	return pool
}
