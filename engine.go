package rolepref

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rolepref/internal/hooks"
	"github.com/arloliu/rolepref/internal/logging"
	"github.com/arloliu/rolepref/internal/metrics"
	"github.com/arloliu/rolepref/strategy"
	"github.com/arloliu/rolepref/types"
)

// Records is the preference record store used by the Engine.
//
// store.Store implements it. Lookups happen during the search; RecordRound and
// WriteSnapshot run after the assignment is final.
type Records interface {
	RecordLookup

	// RecordRound folds the achieved rank of each identity into its rolling average
	// and persists the changed records.
	RecordRound(ctx context.Context, ranks map[string]int, maxCount int) error

	// WriteSnapshot writes all records with their derived ratings to a timestamped
	// file in dir and returns its path.
	WriteSnapshot(dir string, weight float64, now time.Time) (string, error)
}

// Engine assigns roles to a pool of identities from their preference records.
//
// An Engine is safe for concurrent use; assignments are serialized so that record
// updates of one round complete before the next round reads them.
type Engine struct {
	cfg      Config
	catalog  *RoleCatalog
	records  Records
	strategy AssignmentStrategy

	hooks   Hooks
	metrics MetricsCollector
	logger  Logger
	clock   func() time.Time

	mu sync.Mutex
}

// NewPrometheusMetrics creates a MetricsCollector that exports engine and store
// metrics to Prometheus.
//
// Parameters:
//   - reg: Registerer to register collectors with (prometheus.DefaultRegisterer if nil)
//   - namespace: Metric namespace ("rolepref" if empty)
//
// Returns:
//   - MetricsCollector: Collector for WithMetrics and store.WithMetrics
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}

// NewEngine creates a new assignment engine.
//
// The configuration is defaulted and validated. Unless WithStrategy is given, the
// strategy named by cfg.Strategy is built over the configured role catalog.
//
// Parameters:
//   - cfg: Configuration (defaults applied in place)
//   - records: Preference record store, typically *store.Store
//   - opts: Optional configuration (strategy, hooks, metrics, logger, clock)
//
// Returns:
//   - *Engine: Initialized engine
//   - error: ErrInvalidConfig or ErrRecordsRequired
//
// Example:
//
//	cfg := rolepref.DefaultConfig()
//	engine, err := rolepref.NewEngine(&cfg, records, rolepref.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
func NewEngine(cfg *Config, records Records, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if records == nil {
		return nil, ErrRecordsRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	clock := options.clock
	if clock == nil {
		clock = time.Now
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	assigner := options.strategy
	if assigner == nil {
		assigner, err = strategy.New(cfg.Strategy, catalog,
			strategy.WithWeightMultiplier(cfg.WeightMultiplier),
			strategy.WithDistributeToUnranked(cfg.DistributeToUnranked),
			strategy.WithOrderSeed(cfg.OrderSeed),
			strategy.WithLogger(loggerInstance),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return &Engine{
		cfg:      *cfg,
		catalog:  catalog,
		records:  records,
		strategy: assigner,
		hooks:    hooks.Complete(options.hooks),
		metrics:  metricsCollector,
		logger:   loggerInstance,
		clock:    clock,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Catalog returns the role catalog the engine assigns from.
func (e *Engine) Catalog() *RoleCatalog {
	return e.catalog
}

// Strategy returns the assignment strategy in use.
func (e *Engine) Strategy() AssignmentStrategy {
	return e.strategy
}

// Assign computes the role of every identity in pool.
//
// Flow:
//  1. Run the strategy with a fresh budget of Config.MaxOperationBudget operations
//  2. On budget exhaustion, snapshot all records; if no assignment was found, keep
//     the current roles and report StatusFailed
//  3. Verify the mapping is total and respects capacity
//  4. Fold achieved ranks into the records (persistence errors are logged, not returned)
//  5. Log diagnostics, record metrics and fire hooks
//
// Parameters:
//   - ctx: Context for record persistence and hooks; the search itself is not interruptible
//   - pool: Identities with their current roles, in pass order
//   - capacity: Open slots per role; nil derives capacity from the pool's current roles
//
// Returns:
//   - *Result: Total assignment with ranks and diagnostics
//   - error: ErrInvalidPool for malformed input, ErrAssignmentFailed when the mapping
//     fails verification, or the context error
//
// Example:
//
//	res, err := engine.Assign(ctx, pool, rolepref.Capacity{scientist: 2, guard: 3})
//	if err != nil {
//	    return err
//	}
//	if res.Diagnostics.Status == rolepref.StatusFailed {
//	    log.Println("roles left unchanged")
//	}
func (e *Engine) Assign(ctx context.Context, pool []Candidate, capacity Capacity) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	name := e.strategy.Name()
	start := e.clock()

	res, err := e.strategy.Assign(types.Request{
		Pool:     pool,
		Capacity: capacity,
		Records:  e.records,
		Budget:   types.NewBudget(e.cfg.MaxOperationBudget),
	})
	duration := e.clock().Sub(start).Seconds()

	switch {
	case errors.Is(err, ErrBudgetExceeded):
		res = e.unchanged(pool, res, name)
		e.budgetExhausted(ctx, res.Diagnostics, true)
	case err != nil:
		e.metrics.RecordAssignment(name, StatusFailed, duration)
		e.fail(ctx, "assignment rejected", err)

		return nil, err
	case res.Diagnostics.Status == StatusBudgetExhausted:
		e.budgetExhausted(ctx, res.Diagnostics, false)
	}

	if err := verify(pool, capacity, res); err != nil {
		err = fmt.Errorf("%w: %w", ErrAssignmentFailed, err)
		e.metrics.RecordAssignment(name, StatusFailed, duration)
		e.fail(ctx, "assignment failed verification", err)

		return nil, err
	}

	if err := e.records.RecordRound(ctx, res.Ranks, e.cfg.MaxAverageCount); err != nil {
		e.fail(ctx, "failed to persist round results", err)
	}

	diag := res.Diagnostics
	e.logger.Info("assignment complete",
		"strategy", name,
		"status", diag.Status.String(),
		"tries", diag.Tries,
		"limit", diag.Limit,
		"ranked", diag.RankedCount,
		"swaps", diag.Swaps,
		"satisfaction", fmt.Sprintf("%.2f%%", diag.Satisfaction),
	)

	e.metrics.RecordAssignment(name, diag.Status, duration)
	e.metrics.RecordTries(name, diag.Tries)
	e.metrics.RecordSatisfaction(name, diag.Satisfaction)
	if name == strategy.SwapName {
		e.metrics.RecordSwaps(diag.Swaps)
	}

	if err := e.hooks.OnAssignment(ctx, res); err != nil {
		e.logger.Error("assignment hook error", "error", err)
	}

	return res, nil
}

// AssignFrom loads the pool from src and assigns it.
//
// Parameters:
//   - ctx: Context for the source and record persistence
//   - src: Pool source
//
// Returns:
//   - *Result: See Assign
//   - error: ErrPoolSourceRequired, the source error, or any Assign error
func (e *Engine) AssignFrom(ctx context.Context, src PoolSource) (*Result, error) {
	if src == nil {
		return nil, ErrPoolSourceRequired
	}

	pool, err := src.LoadPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool: %w", err)
	}

	return e.Assign(ctx, pool.Candidates, pool.Capacity)
}

// unchanged builds the degraded result that keeps every identity's current role.
func (e *Engine) unchanged(pool []Candidate, failed *Result, name string) *Result {
	res := &Result{
		Assignment: make(map[string]Role, len(pool)),
		Ranks:      make(map[string]int),
	}
	if failed != nil {
		res.Diagnostics = failed.Diagnostics
	}
	res.Diagnostics.Strategy = name
	res.Diagnostics.Status = StatusFailed

	for _, c := range pool {
		res.Assignment[c.Identity] = c.Role
		if rec, ok := e.records.Lookup(c.Identity); ok {
			if rank := rec.Rank(c.Role); rank >= 0 {
				res.Ranks[c.Identity] = rank
			}
		}
	}
	res.Diagnostics.Satisfaction = strategy.Satisfaction(e.catalog.Len(), res.Diagnostics.RankedCount, res.Ranks)

	return res
}

// budgetExhausted snapshots the records and reports the exhaustion.
func (e *Engine) budgetExhausted(ctx context.Context, diag Diagnostics, degraded bool) {
	e.logger.Warn("assignment ran out of budget",
		"strategy", diag.Strategy,
		"tries", diag.Tries,
		"limit", diag.Limit,
		"ranked", diag.RankedCount,
		"degraded", degraded,
	)

	if e.cfg.SnapshotDir != "" {
		path, err := e.records.WriteSnapshot(e.cfg.SnapshotDir, e.cfg.WeightMultiplier, e.clock())
		if err != nil {
			e.fail(ctx, "failed to write snapshot", err)
		} else {
			e.logger.Info("snapshot written", "path", path)
		}
	}

	e.metrics.RecordBudgetExhausted(diag.Strategy, degraded)
	if err := e.hooks.OnBudgetExhausted(ctx, diag); err != nil {
		e.logger.Error("budget exhausted hook error", "error", err)
	}
}

// fail logs err and forwards it to the OnError hook.
func (e *Engine) fail(ctx context.Context, msg string, err error) {
	e.logger.Error(msg, "error", err)
	if hookErr := e.hooks.OnError(ctx, err); hookErr != nil {
		e.logger.Error("error hook error", "error", hookErr)
	}
}

// verify checks that res assigns every identity of pool exactly once within capacity.
func verify(pool []Candidate, capacity Capacity, res *Result) error {
	if res == nil {
		return errors.New("no result")
	}
	if len(res.Assignment) != len(pool) {
		return fmt.Errorf("assignment covers %d identities, pool has %d", len(res.Assignment), len(pool))
	}

	remaining := capacity.Clone()
	if capacity == nil {
		remaining = types.CapacityFromPool(pool)
	}

	for _, c := range pool {
		role, ok := res.Assignment[c.Identity]
		if !ok {
			return fmt.Errorf("identity %q is missing", c.Identity)
		}
		if err := remaining.Take(role); err != nil {
			return fmt.Errorf("identity %q: %w", c.Identity, err)
		}
	}

	return nil
}
