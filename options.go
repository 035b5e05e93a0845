package rolepref

import "time"

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

// engineOptions holds optional Engine configuration.
type engineOptions struct {
	strategy AssignmentStrategy
	hooks    *Hooks
	metrics  MetricsCollector
	logger   Logger
	clock    func() time.Time
}

// WithStrategy sets a custom assignment strategy, overriding Config.Strategy.
//
// Parameters:
//   - strategy: AssignmentStrategy implementation
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	swap := strategy.NewPairwiseSwap(catalog)
//	engine, err := rolepref.NewEngine(&cfg, records, rolepref.WithStrategy(swap))
func WithStrategy(strategy AssignmentStrategy) Option {
	return func(o *engineOptions) {
		o.strategy = strategy
	}
}

// WithHooks sets assignment event hooks.
//
// Hooks run synchronously after the assignment is computed; keep them short.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil callbacks are skipped
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	hooks := &rolepref.Hooks{
//	    OnAssignment: func(ctx context.Context, res *rolepref.Result) error {
//	        return publish(res.Assignment)
//	    },
//	}
//	engine, err := rolepref.NewEngine(&cfg, records, rolepref.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *engineOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	collector := rolepref.NewPrometheusMetrics(prometheus.DefaultRegisterer, "rolepref")
//	engine, err := rolepref.NewEngine(&cfg, records, rolepref.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	engine, err := rolepref.NewEngine(&cfg, records, rolepref.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithClock sets the time source used for durations and snapshot timestamps.
//
// Parameters:
//   - now: Function returning the current time; defaults to time.Now
//
// Returns:
//   - Option: Functional option for NewEngine
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		o.clock = now
	}
}
