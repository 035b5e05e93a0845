package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("errors.Is works correctly", func(t *testing.T) {
		require.True(t, errors.Is(ErrBudgetExceeded, ErrBudgetExceeded))
		require.False(t, errors.Is(ErrBudgetExceeded, ErrCapacityViolation))

		wrapped := fmt.Errorf("assign: %w", ErrBudgetExceeded)
		require.True(t, errors.Is(wrapped, ErrBudgetExceeded))
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			// Engine errors
			ErrInvalidConfig,
			ErrInvalidPool,
			ErrRecordsRequired,
			ErrPoolSourceRequired,
			ErrAssignmentFailed,
			// Catalog errors
			ErrInvalidCatalog,
			ErrUnknownRole,
			// Record errors
			ErrInvalidLength,
			ErrInvalidPreferences,
			ErrCorruptRecord,
			ErrInvalidHash,
			// Store errors
			ErrRecordNotFound,
			ErrRecordExists,
			ErrInvalidIdentity,
			ErrStorageUnavailable,
			ErrNoKeysFound,
			// Strategy errors
			ErrBudgetExceeded,
			ErrCapacityViolation,
			ErrUnknownStrategy,
		}

		for i, err1 := range allErrors {
			for j, err2 := range allErrors {
				if i == j {
					require.True(t, errors.Is(err1, err2), "error should equal itself: %v", err1)
				} else {
					require.False(t, errors.Is(err1, err2), "errors should be distinct: %v vs %v", err1, err2)
				}
			}
		}
	})
}

func TestCorruptRecordError(t *testing.T) {
	err := &CorruptRecordError{Identity: "alice"}
	err.Add("average %s out of range", "-3")
	err.Add("missing roles appended")

	require.ErrorIs(t, err, ErrCorruptRecord)
	require.Contains(t, err.Error(), `"alice"`)
	require.Contains(t, err.Error(), "average -3 out of range; missing roles appended")

	var target *CorruptRecordError
	require.True(t, errors.As(fmt.Errorf("load: %w", err), &target))
	require.Len(t, target.Repairs, 2)
}

func TestCapacityViolationError(t *testing.T) {
	capacity := Capacity{Role(1): 0}
	err := capacity.Take(Role(1))

	require.ErrorIs(t, err, ErrCapacityViolation)
	var target *CapacityViolationError
	require.ErrorAs(t, err, &target)
	require.Equal(t, Role(1), target.Role)
}

func TestIsNoKeysFoundError(t *testing.T) {
	require.False(t, IsNoKeysFoundError(nil))
	require.True(t, IsNoKeysFoundError(ErrNoKeysFound))
	require.True(t, IsNoKeysFoundError(errors.New("nats: no keys found")))
	require.True(t, IsNoKeysFoundError(fmt.Errorf("list keys: %w", errors.New("nats: no keys found"))))
	require.False(t, IsNoKeysFoundError(errors.New("timeout")))
}
