package strategy

import "github.com/arloliu/rolepref/types"

// epsilon absorbs float noise from blended ratings so equal outcomes count as ties.
const epsilon = 1e-9

// Holder is one side of a pairwise comparison: an identity's preference record and the
// role it currently holds. Record is nil for unranked identities.
type Holder struct {
	Record types.PreferenceRecord
	Role   types.Role
}

// Ranked reports whether the holder has a preference record.
func (h Holder) Ranked() bool {
	return h.Record != nil
}

// Comparator decides whether two holders should exchange roles.
//
// The gain of a holder moving from its current role to another is
//
//	rank(current) - rating(other)
//
// where rating blends the raw rank with the holder's historical average rank. A swap
// happens only when the combined gain of both sides is positive and larger than the
// combined gain of swapping back. For weights in [0, 1] the second condition holds
// exactly when the swap lowers the summed raw ranks of the pair, so repeated swapping
// always converges.
type Comparator struct {
	weight     float64
	distribute bool
}

// NewComparator creates a comparator.
//
// Parameters:
//   - weight: Weight multiplier applied to (averageRank - rank), clamped to [0, 1];
//     0 compares raw ranks
//   - distributeToUnranked: Whether unranked holders take part with a neutral gain of 0
//     instead of blocking the swap
//
// Returns:
//   - *Comparator: Comparator ready for use
//
// Example:
//
//	cmp := strategy.NewComparator(0.25, false)
//	if cmp.ShouldSwap(a, b) {
//	    a.Role, b.Role = b.Role, a.Role
//	}
func NewComparator(weight float64, distributeToUnranked bool) *Comparator {
	return &Comparator{weight: min(max(weight, 0), 1), distribute: distributeToUnranked}
}

// Gain returns the gain for a when it takes b's role.
//
// Returns:
//   - float64: rank of a's current role minus a's rating of b's role
//   - bool: false when a is unranked or either role lies outside a's ranked set
func (c *Comparator) Gain(a, b Holder) (float64, bool) {
	if a.Record == nil {
		return 0, false
	}

	current := a.Record.Rank(a.Role)
	if current < 0 {
		return 0, false
	}

	rating, ok := a.Record.Rating(b.Role, c.weight)
	if !ok {
		return 0, false
	}

	return float64(current) - rating, true
}

// Total returns the combined gain of a and b exchanging their roles.
//
// A side without a gain contributes 0 when unranked identities are distributed and
// otherwise a penalty large enough to rule the swap out. Two sides without gains yield
// false.
func (c *Comparator) Total(a, b Holder) (float64, bool) {
	ga, okA := c.Gain(a, b)
	gb, okB := c.Gain(b, a)

	switch {
	case !okA && !okB:
		return 0, false
	case !okA:
		return c.missing() + gb, true
	case !okB:
		return ga + c.missing(), true
	default:
		return ga + gb, true
	}
}

// ShouldSwap reports whether a and b should exchange roles.
func (c *Comparator) ShouldSwap(a, b Holder) bool {
	if a.Role == b.Role {
		return false
	}

	total, ok := c.Total(a, b)
	if !ok || total <= epsilon {
		return false
	}

	// Gain of swapping back once the exchange is done.
	reverse, _ := c.Total(
		Holder{Record: a.Record, Role: b.Role},
		Holder{Record: b.Record, Role: a.Role},
	)

	return total > reverse+epsilon
}

func (c *Comparator) missing() float64 {
	if c.distribute {
		return 0
	}

	return unrankedPenalty
}
