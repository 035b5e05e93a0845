package rolepref

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rolepref/internal/metrics"
	"github.com/arloliu/rolepref/source"
	"github.com/arloliu/rolepref/store"
	rolepreftest "github.com/arloliu/rolepref/testing"
)

const (
	roleA Role = iota
	roleB
	roleC
	roleD
	roleE
)

// failingStorage is a memory storage whose writes can be switched to fail.
type failingStorage struct {
	*store.MemoryStorage
	fail atomic.Bool
}

func (f *failingStorage) Save(ctx context.Context, identity string, data []byte) error {
	if f.fail.Load() {
		return ErrStorageUnavailable
	}

	return f.MemoryStorage.Save(ctx, identity, data)
}

// recordingMetrics captures the engine metrics the tests assert on.
type recordingMetrics struct {
	*metrics.NopMetrics

	mu        sync.Mutex
	statuses  []Status
	exhausted []bool
	swaps     []int
}

func (m *recordingMetrics) RecordAssignment(_ string, status Status, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *recordingMetrics) RecordBudgetExhausted(_ string, degraded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exhausted = append(m.exhausted, degraded)
}

func (m *recordingMetrics) RecordSwaps(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swaps = append(m.swaps, count)
}

// stubStrategy returns a fixed result and error.
type stubStrategy struct {
	res *Result
	err error
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Assign(_ Request) (*Result, error) {
	return s.res, s.err
}

func newTestStore(t *testing.T, roles ...string) (*store.Store, *failingStorage) {
	t.Helper()

	storage := &failingStorage{MemoryStorage: store.NewMemoryStorage()}
	st := store.New(rolepreftest.Catalog(t, roles...), storage, store.WithSeed(1))

	return st, storage
}

func put(t *testing.T, st *store.Store, identity string, prefs ...Role) {
	t.Helper()

	_, err := st.Put(context.Background(), identity, prefs)
	require.NoError(t, err)
}

func testConfig(roles ...string) Config {
	cfg := TestConfig()
	cfg.Roles = roles

	return cfg
}

func TestNewEngine(t *testing.T) {
	st, _ := newTestStore(t, "a", "b")

	t.Run("nil config", func(t *testing.T) {
		_, err := NewEngine(nil, st)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("nil records", func(t *testing.T) {
		cfg := testConfig("a", "b")
		_, err := NewEngine(&cfg, nil)
		require.ErrorIs(t, err, ErrRecordsRequired)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		cfg := testConfig("a", "b")
		cfg.Strategy = "greedy"
		_, err := NewEngine(&cfg, st)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("builds configured strategy", func(t *testing.T) {
		cfg := testConfig("a", "b")
		cfg.Strategy = "swap"
		engine, err := NewEngine(&cfg, st, nil)

		require.NoError(t, err)
		require.Equal(t, "swap", engine.Strategy().Name())
		require.Equal(t, 2, engine.Catalog().Len())
		require.Equal(t, "swap", engine.Config().Strategy)
	})

	t.Run("custom strategy wins", func(t *testing.T) {
		cfg := testConfig("a", "b")
		engine, err := NewEngine(&cfg, st, WithStrategy(&stubStrategy{}))

		require.NoError(t, err)
		require.Equal(t, "stub", engine.Strategy().Name())
	})
}

func TestEngine_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("swap resolves opposite preferences", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b")
		put(t, st, "p1", roleB, roleA)
		put(t, st, "p2", roleA, roleB)

		cfg := testConfig("a", "b")
		cfg.Strategy = "swap"
		collector := &recordingMetrics{NopMetrics: metrics.NewNop()}
		logger := rolepreftest.NewRecordingLogger()
		engine, err := NewEngine(&cfg, st, WithMetrics(collector), WithLogger(logger))
		require.NoError(t, err)

		res, err := engine.Assign(ctx, []Candidate{{Identity: "p1", Role: roleA}, {Identity: "p2", Role: roleB}}, nil)

		require.NoError(t, err)
		require.Equal(t, map[string]Role{"p1": roleB, "p2": roleA}, res.Assignment)
		require.InDelta(t, 100.0, res.Diagnostics.Satisfaction, 1e-9)
		require.Equal(t, []int{1}, collector.swaps)
		require.Equal(t, []Status{StatusConverged}, collector.statuses)

		entry, ok := logger.Find("INFO", "assignment complete")
		require.True(t, ok)
		require.Equal(t, "swap", entry.Fields["strategy"])
		require.Equal(t, "100.00%", entry.Fields["satisfaction"])

		// The achieved first choice is folded into the average.
		rec, ok := st.Get("p1")
		require.True(t, ok)
		require.InDelta(t, 0.0, rec.AverageRank(), 1e-9)
		require.Equal(t, 1, rec.AverageCount())
	})

	t.Run("search fills explicit capacity", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b", "c")
		put(t, st, "p1", roleA, roleB, roleC)
		put(t, st, "p2", roleA, roleB, roleC)
		put(t, st, "p3", roleA, roleB, roleC)

		cfg := testConfig("a", "b", "c")
		engine, err := NewEngine(&cfg, st)
		require.NoError(t, err)

		pool := []Candidate{{Identity: "p1", Role: RoleNone}, {Identity: "p2", Role: RoleNone}, {Identity: "p3", Role: RoleNone}}
		res, err := engine.Assign(ctx, pool, Capacity{roleA: 1, roleB: 1, roleC: 1})

		require.NoError(t, err)
		require.ElementsMatch(t, []Role{roleA, roleB, roleC}, []Role{
			res.Assignment["p1"], res.Assignment["p2"], res.Assignment["p3"],
		})

		sum := 0
		for _, rank := range res.Ranks {
			sum += rank
		}
		require.Equal(t, 3, sum)
	})

	t.Run("small budget returns greedy result and snapshots", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b", "c", "d", "e")
		pool := make([]Candidate, 0, 5)
		for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
			put(t, st, id, roleA, roleB, roleC, roleD, roleE)
			pool = append(pool, Candidate{Identity: id, Role: RoleNone})
		}

		cfg := testConfig("a", "b", "c", "d", "e")
		cfg.MaxOperationBudget = 3
		cfg.SnapshotDir = t.TempDir()
		collector := &recordingMetrics{NopMetrics: metrics.NewNop()}
		var exhausted atomic.Int32
		engine, err := NewEngine(&cfg, st, WithMetrics(collector), WithHooks(&Hooks{
			OnBudgetExhausted: func(_ context.Context, diag Diagnostics) error {
				exhausted.Add(1)
				require.Equal(t, StatusBudgetExhausted, diag.Status)

				return nil
			},
		}))
		require.NoError(t, err)

		res, err := engine.Assign(ctx, pool, Capacity{roleA: 1, roleB: 1, roleC: 1, roleD: 1, roleE: 1})

		require.NoError(t, err)
		require.Equal(t, StatusBudgetExhausted, res.Diagnostics.Status)
		require.Equal(t, map[string]Role{"p1": roleA, "p2": roleB, "p3": roleC, "p4": roleD, "p5": roleE}, res.Assignment)
		require.Equal(t, int32(1), exhausted.Load())
		require.Equal(t, []bool{false}, collector.exhausted)

		entries, err := os.ReadDir(cfg.SnapshotDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("failed strategy keeps current roles", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b")
		put(t, st, "p1", roleB, roleA)

		cfg := testConfig("a", "b")
		cfg.SnapshotDir = t.TempDir()
		collector := &recordingMetrics{NopMetrics: metrics.NewNop()}
		failed := &Result{Diagnostics: Diagnostics{Strategy: "stub", Status: StatusFailed, RankedCount: 1}}
		engine, err := NewEngine(&cfg, st,
			WithStrategy(&stubStrategy{res: failed, err: ErrBudgetExceeded}),
			WithMetrics(collector),
		)
		require.NoError(t, err)

		res, err := engine.Assign(ctx, []Candidate{{Identity: "p1", Role: roleA}, {Identity: "guest", Role: roleB}}, nil)

		require.NoError(t, err)
		require.Equal(t, StatusFailed, res.Diagnostics.Status)
		require.Equal(t, map[string]Role{"p1": roleA, "guest": roleB}, res.Assignment)
		require.Equal(t, map[string]int{"p1": 1}, res.Ranks)
		require.InDelta(t, 50.0, res.Diagnostics.Satisfaction, 1e-9)
		require.Equal(t, []bool{true}, collector.exhausted)
		require.Equal(t, []Status{StatusFailed}, collector.statuses)

		entries, err := os.ReadDir(cfg.SnapshotDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("invalid pool is rejected", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b")
		cfg := testConfig("a", "b")
		var hookErr error
		engine, err := NewEngine(&cfg, st, WithHooks(&Hooks{
			OnError: func(_ context.Context, err error) error {
				hookErr = err
				return nil
			},
		}))
		require.NoError(t, err)

		_, err = engine.Assign(ctx, []Candidate{{Identity: "p1", Role: roleA}, {Identity: "p1", Role: roleB}}, nil)

		require.ErrorIs(t, err, ErrInvalidPool)
		require.ErrorIs(t, hookErr, ErrInvalidPool)
	})

	t.Run("incomplete mapping fails verification", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b")
		cfg := testConfig("a", "b")
		partial := &Result{Assignment: map[string]Role{"p1": roleA}, Diagnostics: Diagnostics{Status: StatusConverged}}
		engine, err := NewEngine(&cfg, st, WithStrategy(&stubStrategy{res: partial}))
		require.NoError(t, err)

		_, err = engine.Assign(ctx, []Candidate{{Identity: "p1", Role: roleA}, {Identity: "p2", Role: roleB}}, nil)

		require.ErrorIs(t, err, ErrAssignmentFailed)
	})

	t.Run("over-capacity mapping fails verification", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b")
		cfg := testConfig("a", "b")
		crowded := &Result{
			Assignment:  map[string]Role{"p1": roleA, "p2": roleA},
			Diagnostics: Diagnostics{Status: StatusConverged},
		}
		engine, err := NewEngine(&cfg, st, WithStrategy(&stubStrategy{res: crowded}))
		require.NoError(t, err)

		_, err = engine.Assign(ctx, []Candidate{{Identity: "p1", Role: roleA}, {Identity: "p2", Role: roleB}}, nil)

		require.ErrorIs(t, err, ErrAssignmentFailed)
		require.ErrorIs(t, err, ErrCapacityViolation)
	})

	t.Run("persistence failure does not fail the round", func(t *testing.T) {
		st, storage := newTestStore(t, "a", "b")
		put(t, st, "p1", roleB, roleA)
		put(t, st, "p2", roleA, roleB)
		storage.fail.Store(true)

		cfg := testConfig("a", "b")
		logger := rolepreftest.NewRecordingLogger()
		engine, err := NewEngine(&cfg, st, WithLogger(logger))
		require.NoError(t, err)

		res, err := engine.Assign(ctx, []Candidate{{Identity: "p1", Role: roleA}, {Identity: "p2", Role: roleB}}, nil)

		require.NoError(t, err)
		require.Equal(t, roleB, res.Assignment["p1"])
		_, ok := logger.Find("ERROR", "failed to persist round results")
		require.True(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b")
		cfg := testConfig("a", "b")
		engine, err := NewEngine(&cfg, st)
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = engine.Assign(cancelled, nil, nil)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("hook errors are logged", func(t *testing.T) {
		st, _ := newTestStore(t, "a", "b")
		cfg := testConfig("a", "b")
		logger := rolepreftest.NewRecordingLogger()
		engine, err := NewEngine(&cfg, st, WithLogger(logger), WithHooks(&Hooks{
			OnAssignment: func(context.Context, *Result) error { return errors.New("boom") },
		}))
		require.NoError(t, err)

		_, err = engine.Assign(ctx, []Candidate{{Identity: "g1", Role: roleA}}, nil)

		require.NoError(t, err)
		_, ok := logger.Find("ERROR", "assignment hook error")
		require.True(t, ok)
	})
}

func TestEngine_AssignFrom(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, "a", "b")
	put(t, st, "p1", roleB, roleA)
	put(t, st, "p2", roleA, roleB)

	cfg := testConfig("a", "b")
	engine, err := NewEngine(&cfg, st)
	require.NoError(t, err)

	t.Run("assigns the source pool", func(t *testing.T) {
		src := source.NewStatic([]Candidate{{Identity: "p1", Role: RoleNone}, {Identity: "p2", Role: RoleNone}},
			Capacity{roleA: 1, roleB: 1})

		res, err := engine.AssignFrom(ctx, src)

		require.NoError(t, err)
		require.Equal(t, map[string]Role{"p1": roleB, "p2": roleA}, res.Assignment)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := engine.AssignFrom(ctx, nil)
		require.ErrorIs(t, err, ErrPoolSourceRequired)
	})
}

func BenchmarkEngine_Assign(b *testing.B) {
	ctx := context.Background()
	cfg := TestConfig()
	catalog, err := cfg.Catalog()
	require.NoError(b, err)

	st := store.New(catalog, store.NewMemoryStorage(), store.WithSeed(7))
	pool := make([]Candidate, 0, 20)
	for i := range 20 {
		id := fmt.Sprintf("player-%02d", i)
		_, err := st.Create(ctx, id)
		require.NoError(b, err)
		pool = append(pool, Candidate{Identity: id, Role: Role(i % catalog.Len())})
	}

	engine, err := NewEngine(&cfg, st)
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = engine.Assign(ctx, pool, nil)
	}
}
