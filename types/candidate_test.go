package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateIdentity(t *testing.T) {
	valid := []string{"alice", "76561198000000000", "player_1", "a-b", strings.Repeat("x", 128)}
	for _, id := range valid {
		require.NoError(t, ValidateIdentity(id), id)
	}

	invalid := []string{"", "../etc", "a b", "name@steam", "a.b", strings.Repeat("x", 129)}
	for _, id := range invalid {
		require.ErrorIs(t, ValidateIdentity(id), ErrInvalidIdentity, id)
	}
}

func TestCapacity(t *testing.T) {
	t.Run("from pool", func(t *testing.T) {
		pool := []Candidate{
			{Identity: "a", Role: 0},
			{Identity: "b", Role: 0},
			{Identity: "c", Role: 2},
			{Identity: "d", Role: RoleNone},
		}
		capacity := CapacityFromPool(pool)
		require.Equal(t, Capacity{0: 2, 2: 1}, capacity)
		require.Equal(t, 3, capacity.Total())
		require.Equal(t, []Role{0, 2}, capacity.Roles())
	})

	t.Run("take and release", func(t *testing.T) {
		capacity := Capacity{1: 1}
		clone := capacity.Clone()

		require.NoError(t, capacity.Take(1))
		require.Equal(t, 0, capacity.Remaining(1))
		require.ErrorIs(t, capacity.Take(1), ErrCapacityViolation)
		require.ErrorIs(t, capacity.Take(5), ErrCapacityViolation)
		require.NoError(t, capacity.Take(RoleNone))

		capacity.Release(1)
		capacity.Release(RoleNone)
		require.Equal(t, 1, capacity.Remaining(1))
		require.Equal(t, 1, clone.Remaining(1))
		require.NotContains(t, capacity, RoleNone)
	})

	t.Run("total ignores spectator slots", func(t *testing.T) {
		capacity := Capacity{0: 1, 1: -2, RoleNone: 5}
		require.Equal(t, 1, capacity.Total())
	})
}

func TestBudget(t *testing.T) {
	b := NewBudget(2)
	require.Equal(t, 2, b.Limit())
	require.False(t, b.Exhausted())

	require.True(t, b.Spend())
	require.True(t, b.Spend())
	require.True(t, b.Exhausted())
	require.False(t, b.Spend())
	require.Equal(t, 3, b.Used())
	require.Equal(t, 0, b.Remaining())

	zero := NewBudget(-4)
	require.Equal(t, 0, zero.Limit())
	require.True(t, zero.Exhausted())
	require.False(t, zero.Spend())
}
