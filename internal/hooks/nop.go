// Package hooks provides default implementations of types.Hooks.
package hooks

import (
	"context"

	"github.com/arloliu/rolepref/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, *types.Result) error                     = (*NopHooks)(nil).OnAssignment
	_ func(context.Context, types.Diagnostics) error                 = (*NopHooks)(nil).OnBudgetExhausted
	_ func(context.Context, string, *types.CorruptRecordError) error = (*NopHooks)(nil).OnRecordRepaired
	_ func(context.Context, error) error                             = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnAssignment:      h.OnAssignment,
		OnBudgetExhausted: h.OnBudgetExhausted,
		OnRecordRepaired:  h.OnRecordRepaired,
		OnError:           h.OnError,
	}
}

// Complete returns a copy of h with every nil callback replaced by its no-op.
//
// A nil h yields NewNop().
func Complete(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnAssignment != nil {
		out.OnAssignment = h.OnAssignment
	}
	if h.OnBudgetExhausted != nil {
		out.OnBudgetExhausted = h.OnBudgetExhausted
	}
	if h.OnRecordRepaired != nil {
		out.OnRecordRepaired = h.OnRecordRepaired
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnAssignment is a no-op implementation.
func (h *NopHooks) OnAssignment(_ context.Context, _ *types.Result) error {
	return nil
}

// OnBudgetExhausted is a no-op implementation.
func (h *NopHooks) OnBudgetExhausted(_ context.Context, _ types.Diagnostics) error {
	return nil
}

// OnRecordRepaired is a no-op implementation.
func (h *NopHooks) OnRecordRepaired(_ context.Context, _ string, _ *types.CorruptRecordError) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
