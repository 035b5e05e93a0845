package strategy

import "github.com/arloliu/rolepref/types"

// Errors returned by the strategies, aliased from types for callers that only import
// this package.
var (
	// ErrBudgetExceeded indicates that the budget ran out before any feasible
	// assignment was found.
	ErrBudgetExceeded = types.ErrBudgetExceeded

	// ErrUnknownStrategy indicates that New was called with an unregistered name.
	ErrUnknownStrategy = types.ErrUnknownStrategy

	// ErrInvalidPool indicates a malformed request pool.
	ErrInvalidPool = types.ErrInvalidPool
)
