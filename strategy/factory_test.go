package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rolepref/types"
)

func TestNew(t *testing.T) {
	catalog := types.DefaultRoleCatalog()

	t.Run("search", func(t *testing.T) {
		s, err := New("search", catalog)
		require.NoError(t, err)
		require.IsType(t, &BoundedSearch{}, s)
		require.Equal(t, SearchName, s.Name())
	})

	t.Run("swap is case-insensitive", func(t *testing.T) {
		s, err := New(" SWAP ", catalog, WithOrderSeed(3))
		require.NoError(t, err)
		require.IsType(t, &PairwiseSwap{}, s)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := New("greedy", catalog)
		require.ErrorIs(t, err, ErrUnknownStrategy)
	})
}

func TestSatisfaction(t *testing.T) {
	require.InDelta(t, 100.0, Satisfaction(3, 2, map[string]int{"a": 0, "b": 0}), 1e-9)
	require.InDelta(t, 100.0/6, Satisfaction(3, 2, map[string]int{"a": 2}), 1e-9)
	require.Zero(t, Satisfaction(3, 0, nil))
	require.Zero(t, Satisfaction(0, 2, nil))
}

func TestNewConfig(t *testing.T) {
	cfg := newConfig([]Option{nil, WithWeightMultiplier(3), WithLogger(nil)})

	require.InDelta(t, 1.0, cfg.weight, 1e-9)
	require.NotNil(t, cfg.logger)

	cfg = newConfig([]Option{WithWeightMultiplier(-1)})
	require.Zero(t, cfg.weight)
}
