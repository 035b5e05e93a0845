package record

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rolepref/types"
)

func threeRoles(t *testing.T) *types.RoleCatalog {
	t.Helper()
	c, err := types.NewRoleCatalog("a", "b", "c")
	require.NoError(t, err)

	return c
}

func requirePermutation(t *testing.T, r *Record) {
	t.Helper()
	require.NoError(t, Validate(r.Catalog(), r.Preferences()))
	for rank, role := range r.Preferences() {
		require.Equal(t, rank, r.Rank(role))
	}
}

func TestNew(t *testing.T) {
	c := threeRoles(t)

	t.Run("valid permutation", func(t *testing.T) {
		r, err := New(c, []types.Role{2, 0, 1})
		require.NoError(t, err)
		require.Equal(t, 3, r.Len())
		require.Equal(t, 0, r.Rank(2))
		require.Equal(t, 2, r.Rank(1))
		require.Equal(t, -1, r.Rank(types.RoleNone))
		require.Equal(t, types.Role(0), r.RoleAt(1))
		require.Equal(t, types.RoleNone, r.RoleAt(3))
		require.InDelta(t, 1.0, r.AverageRank(), 1e-9)
		require.Equal(t, 0, r.AverageCount())
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := New(c, []types.Role{0, 1})
		require.ErrorIs(t, err, types.ErrInvalidLength)
	})

	t.Run("duplicate role", func(t *testing.T) {
		_, err := New(c, []types.Role{0, 1, 1})
		require.ErrorIs(t, err, types.ErrInvalidPreferences)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := New(c, []types.Role{0, 1, 7})
		require.ErrorIs(t, err, types.ErrInvalidPreferences)
	})
}

func TestNewShuffled(t *testing.T) {
	c := types.DefaultRoleCatalog()

	a := NewShuffled(c, rand.New(rand.NewPCG(42, 0)))
	b := NewShuffled(c, rand.New(rand.NewPCG(42, 0)))
	requirePermutation(t, a)
	require.Equal(t, a.Preferences(), b.Preferences())
	require.InDelta(t, 6.5, a.AverageRank(), 1e-9)
}

func TestSetPreferences(t *testing.T) {
	c := threeRoles(t)
	r, err := New(c, []types.Role{0, 1, 2})
	require.NoError(t, err)

	require.ErrorIs(t, r.SetPreferences([]types.Role{0, 1, 2, 0}), types.ErrInvalidLength)
	require.Equal(t, []types.Role{0, 1, 2}, r.Preferences(), "record must be unchanged on error")

	require.NoError(t, r.SetPreferences([]types.Role{1, 2, 0}))
	require.Equal(t, []types.Role{1, 2, 0}, r.Preferences())
	requirePermutation(t, r)

	prefs := r.Preferences()
	prefs[0] = 2
	require.Equal(t, types.Role(1), r.RoleAt(0), "Preferences must return a copy")
}

func TestEditsKeepPermutation(t *testing.T) {
	c := types.DefaultRoleCatalog()
	r := NewShuffled(c, rand.New(rand.NewPCG(7, 7)))
	rng := rand.New(rand.NewPCG(1, 2))

	for range 200 {
		switch rng.IntN(2) {
		case 0:
			require.NoError(t, r.SwapRanks(rng.IntN(c.Len()), rng.IntN(c.Len())))
		case 1:
			require.NoError(t, r.MoveRole(types.Role(rng.IntN(c.Len())), rng.IntN(c.Len())))
		}
		requirePermutation(t, r)
	}

	require.ErrorIs(t, r.SwapRanks(-1, 0), types.ErrInvalidPreferences)
	require.ErrorIs(t, r.SwapRanks(0, c.Len()), types.ErrInvalidPreferences)
	require.ErrorIs(t, r.MoveRole(types.RoleNone, 0), types.ErrUnknownRole)
}

func TestMoveRole(t *testing.T) {
	c := threeRoles(t)
	r, err := New(c, []types.Role{0, 1, 2})
	require.NoError(t, err)

	require.NoError(t, r.MoveRole(2, 0))
	require.Equal(t, []types.Role{2, 1, 0}, r.Preferences())
}

func TestRating(t *testing.T) {
	c := threeRoles(t)
	r, err := New(c, []types.Role{2, 0, 1})
	require.NoError(t, err)
	// average starts at the midpoint 1.0

	tests := []struct {
		name   string
		role   types.Role
		weight float64
		want   float64
	}{
		{"raw rank first", 2, 0, 0},
		{"raw rank last", 1, 0, 2},
		{"half weight first", 2, 0.5, 0.5},
		{"half weight last", 1, 0.5, 1.5},
		{"full weight", 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Rating(tt.role, tt.weight)
			require.True(t, ok)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, ok := r.Rating(types.RoleNone, 0.5)
	require.False(t, ok)
}

func TestUpdateAverage(t *testing.T) {
	c := types.DefaultRoleCatalog()
	r := NewShuffled(c, rand.New(rand.NewPCG(1, 1)))

	r.UpdateAverage(4, 2)
	require.InDelta(t, 4.0, r.AverageRank(), 1e-9, "first sample replaces the neutral start")
	require.Equal(t, 1, r.AverageCount())

	r.UpdateAverage(0, 2)
	require.InDelta(t, 2.0, r.AverageRank(), 1e-9)
	require.Equal(t, 2, r.AverageCount())

	// count is capped, so the weight stays at 2
	r.UpdateAverage(8, 2)
	require.InDelta(t, 4.0, r.AverageRank(), 1e-9)
	require.Equal(t, 2, r.AverageCount())

	r.UpdateAverage(1, 0)
	require.Equal(t, 1, r.AverageCount(), "non-positive cap behaves as 1")
}

func TestHash(t *testing.T) {
	c := types.DefaultRoleCatalog()
	prefs := []types.Role{13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	r, err := New(c, prefs)
	require.NoError(t, err)

	require.Equal(t, "dcba9876543210", r.Hash())

	parsed, err := ParseHash(c, "DCBA9876543210")
	require.NoError(t, err)
	require.Equal(t, prefs, parsed)

	t.Run("invalid", func(t *testing.T) {
		for name, hash := range map[string]string{
			"short":     "dcba",
			"bad digit": "dcba98765432!0",
			"unknown":   "fcba9876543210",
			"duplicate": "dcba9876543211",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := ParseHash(c, hash)
				require.ErrorIs(t, err, types.ErrInvalidHash)
			})
		}
	})
}

func TestClone(t *testing.T) {
	c := threeRoles(t)
	r, err := New(c, []types.Role{0, 1, 2})
	require.NoError(t, err)

	clone := r.Clone()
	require.NoError(t, clone.SwapRanks(0, 2))
	clone.UpdateAverage(2, 5)

	require.Equal(t, []types.Role{0, 1, 2}, r.Preferences())
	require.Equal(t, 0, r.AverageCount())
	require.Equal(t, []types.Role{2, 1, 0}, clone.Preferences())
}

func TestString(t *testing.T) {
	c := threeRoles(t)
	r, err := New(c, []types.Role{1, 0, 2})
	require.NoError(t, err)

	require.Equal(t, "1.000 (count 0) b,a,c", r.String())
}
