package types

import "context"

// Hooks defines callbacks for engine and record store events.
//
// All hooks are optional and called synchronously after the triggering operation has
// finished, never from inside a search. Hook errors are logged but don't fail the
// operation that fired them.
//
// Example:
//
//	hooks := &rolepref.Hooks{
//	    OnAssignment: func(ctx context.Context, result *rolepref.Result) error {
//	        log.Printf("satisfaction %.1f%%", result.Diagnostics.Satisfaction)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnAssignment is called after a final assignment has been verified and reported.
	OnAssignment func(ctx context.Context, result *Result) error

	// OnBudgetExhausted is called when an invocation ran out of budget, with or without
	// a usable result.
	OnBudgetExhausted func(ctx context.Context, diag Diagnostics) error

	// OnRecordRepaired is called when a stored record needed repair while loading.
	OnRecordRepaired func(ctx context.Context, identity string, repair *CorruptRecordError) error

	// OnError is called when a recoverable error occurs.
	OnError func(ctx context.Context, err error) error
}
