package record

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/rolepref/types"
)

// Record is one identity's ranked role list and rolling satisfaction average.
//
// Record is not safe for concurrent mutation; the record store serializes writes and
// strategies only read through types.PreferenceRecord.
type Record struct {
	catalog      *types.RoleCatalog
	prefs        []types.Role
	ranks        []int // rank by role code
	averageRank  float64
	averageCount int
}

// Compile-time assertion that Record implements PreferenceRecord.
var _ types.PreferenceRecord = (*Record)(nil)

// New creates a record with the given preference order and a neutral average.
//
// The average starts at the midpoint rank (N-1)/2 with a sample count of zero, so the
// first UpdateAverage call replaces it entirely.
//
// Parameters:
//   - catalog: Role catalog defining the ranked set
//   - prefs: Full permutation of the catalog's roles, most preferred first
//
// Returns:
//   - *Record: New record
//   - error: ErrInvalidLength or ErrInvalidPreferences when prefs is not a permutation
func New(catalog *types.RoleCatalog, prefs []types.Role) (*Record, error) {
	r := &Record{
		catalog:     catalog,
		averageRank: Midpoint(catalog),
	}
	if err := r.SetPreferences(prefs); err != nil {
		return nil, err
	}

	return r, nil
}

// NewShuffled creates a record with a random preference order drawn from rng.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(hash.IdentitySeed(id, seed), 0))
//	rec := record.NewShuffled(catalog, rng)
func NewShuffled(catalog *types.RoleCatalog, rng *rand.Rand) *Record {
	prefs := catalog.Roles()
	rng.Shuffle(len(prefs), func(i, j int) {
		prefs[i], prefs[j] = prefs[j], prefs[i]
	})

	r := &Record{catalog: catalog, averageRank: Midpoint(catalog)}
	r.apply(prefs)

	return r
}

// Midpoint returns the neutral average rank (N-1)/2 of catalog.
func Midpoint(catalog *types.RoleCatalog) float64 {
	return float64(catalog.Len()-1) / 2
}

// Catalog returns the catalog the record was built against.
func (r *Record) Catalog() *types.RoleCatalog {
	return r.catalog
}

// Len returns the number of ranked roles.
func (r *Record) Len() int {
	return len(r.prefs)
}

// Preferences returns a copy of the preference order.
func (r *Record) Preferences() []types.Role {
	return slices.Clone(r.prefs)
}

// Rank returns the 0-based rank of role, or -1 for roles outside the ranked set.
func (r *Record) Rank(role types.Role) int {
	if role < 0 || int(role) >= len(r.ranks) {
		return -1
	}

	return r.ranks[role]
}

// RoleAt returns the role at rank, or RoleNone when rank is out of range.
func (r *Record) RoleAt(rank int) types.Role {
	if rank < 0 || rank >= len(r.prefs) {
		return types.RoleNone
	}

	return r.prefs[rank]
}

// Rating returns rank + (averageRank - rank) * weight for a ranked role.
//
// With weight 0 the rating is the raw rank; with weight 1 it is the average alone.
// Lower ratings are better.
func (r *Record) Rating(role types.Role, weight float64) (float64, bool) {
	rank := r.Rank(role)
	if rank < 0 {
		return 0, false
	}

	return float64(rank) + (r.averageRank-float64(rank))*weight, true
}

// AverageRank returns the bounded moving average of received ranks.
func (r *Record) AverageRank() float64 {
	return r.averageRank
}

// AverageCount returns the number of samples folded into the average.
func (r *Record) AverageCount() int {
	return r.averageCount
}

// SetPreferences replaces the preference order.
//
// Returns:
//   - error: ErrInvalidLength when len(prefs) != N, ErrInvalidPreferences when prefs
//     repeats a role or names one outside the catalog. The record is unchanged on error.
func (r *Record) SetPreferences(prefs []types.Role) error {
	if err := Validate(r.catalog, prefs); err != nil {
		return err
	}
	r.apply(slices.Clone(prefs))

	return nil
}

// Validate checks that prefs is a full permutation of the catalog's roles.
func Validate(catalog *types.RoleCatalog, prefs []types.Role) error {
	if len(prefs) != catalog.Len() {
		return fmt.Errorf("%w: got %d, want %d", types.ErrInvalidLength, len(prefs), catalog.Len())
	}

	seen := make([]bool, catalog.Len())
	for i, role := range prefs {
		if !catalog.Contains(role) {
			return fmt.Errorf("%w: rank %d holds unknown role %d", types.ErrInvalidPreferences, i, int(role))
		}
		if seen[role] {
			return fmt.Errorf("%w: role %s listed twice", types.ErrInvalidPreferences, catalog.Name(role))
		}
		seen[role] = true
	}

	return nil
}

// SwapRanks exchanges the roles at ranks i and j.
func (r *Record) SwapRanks(i, j int) error {
	n := len(r.prefs)
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("%w: rank out of range [0,%d)", types.ErrInvalidPreferences, n)
	}
	r.prefs[i], r.prefs[j] = r.prefs[j], r.prefs[i]
	r.ranks[r.prefs[i]] = i
	r.ranks[r.prefs[j]] = j

	return nil
}

// MoveRole places role at rank by swapping it with the role currently holding that rank.
func (r *Record) MoveRole(role types.Role, rank int) error {
	from := r.Rank(role)
	if from < 0 {
		return fmt.Errorf("%w: %d", types.ErrUnknownRole, int(role))
	}

	return r.SwapRanks(from, rank)
}

// UpdateAverage folds a received rank into the bounded moving average.
//
// averageRank = (averageRank * w + rank) / (w + 1) with w = min(averageCount, maxCount);
// averageCount then increments up to maxCount so old rounds decay.
func (r *Record) UpdateAverage(rank int, maxCount int) {
	maxCount = max(maxCount, 1)
	w := float64(min(r.averageCount, maxCount))
	r.averageRank = (r.averageRank*w + float64(rank)) / (w + 1)
	r.averageCount = min(r.averageCount+1, maxCount)
}

// Hash returns the compact preference hash: one base-36 digit per role code, most
// preferred first. For catalogs of up to 16 roles this is plain lowercase hex.
func (r *Record) Hash() string {
	var sb strings.Builder
	sb.Grow(len(r.prefs))
	for _, role := range r.prefs {
		sb.WriteString(strconv.FormatInt(int64(r.catalog.Code(role)), 36))
	}

	return sb.String()
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	return &Record{
		catalog:      r.catalog,
		prefs:        slices.Clone(r.prefs),
		ranks:        slices.Clone(r.ranks),
		averageRank:  r.averageRank,
		averageCount: r.averageCount,
	}
}

// String returns a human readable summary.
func (r *Record) String() string {
	names := make([]string, len(r.prefs))
	for i, role := range r.prefs {
		names[i] = r.catalog.Name(role)
	}

	return fmt.Sprintf("%.3f (count %d) %s", r.averageRank, r.averageCount, strings.Join(names, ","))
}

func (r *Record) apply(prefs []types.Role) {
	r.prefs = prefs
	r.ranks = make([]int, len(prefs))
	for i, role := range prefs {
		r.ranks[role] = i
	}
}
