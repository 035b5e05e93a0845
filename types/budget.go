package types

// Budget is the operation counter shared by every search path of one assignment
// invocation.
//
// The budget is deliberately not time based: it counts branch attempts and pairwise
// comparisons, which keeps results reproducible across machines and test runs. It is
// owned by a single invocation and is not safe for concurrent use.
type Budget struct {
	limit int
	used  int
}

// NewBudget creates a budget allowing limit operations. A non-positive limit yields an
// already exhausted budget.
func NewBudget(limit int) *Budget {
	return &Budget{limit: max(limit, 0)}
}

// Spend consumes one operation and reports whether it was still within the limit.
func (b *Budget) Spend() bool {
	b.used++
	return b.used <= b.limit
}

// Exhausted reports whether no operation is left.
func (b *Budget) Exhausted() bool {
	return b.used >= b.limit
}

// Used returns the number of operations consumed, including ones past the limit.
func (b *Budget) Used() int {
	return b.used
}

// Limit returns the configured maximum.
func (b *Budget) Limit() int {
	return b.limit
}

// Remaining returns the operations left before the limit.
func (b *Budget) Remaining() int {
	return max(b.limit-b.used, 0)
}
