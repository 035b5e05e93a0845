package strategy

import (
	"github.com/arloliu/rolepref/internal/logging"
	"github.com/arloliu/rolepref/types"
)

const (
	// DefaultWeightMultiplier is the blend factor between raw rank and historical average.
	DefaultWeightMultiplier = 0.25

	// unrankedPenalty is the gain reported for an unranked side when unranked identities
	// are not distributed. It dominates any achievable positive gain so such swaps never happen.
	unrankedPenalty = -100.0
)

// config holds the settings shared by every built-in strategy.
type config struct {
	weight     float64
	distribute bool
	orderSeed  uint64
	logger     types.Logger
}

// Option configures a built-in strategy.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		weight: DefaultWeightMultiplier,
		logger: logging.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg.weight = min(max(cfg.weight, 0), 1)
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	return cfg
}

// WithWeightMultiplier sets the blend factor between raw rank (0) and historical
// average rank (1). Values outside [0, 1] are clamped.
func WithWeightMultiplier(weight float64) Option {
	return func(c *config) {
		c.weight = weight
	}
}

// WithDistributeToUnranked lets identities without a preference record take part in
// assignment.
//
// When enabled, unranked identities contribute a neutral rating of 0 to swap decisions
// and receive the first role in canonical order that still has capacity, or
// types.RoleNone when every slot is taken. When disabled they keep their current role
// and its slot.
func WithDistributeToUnranked(distribute bool) Option {
	return func(c *config) {
		c.distribute = distribute
	}
}

// WithOrderSeed rotates the pass order of identities by their seeded xxh3 hash.
//
// Zero keeps the pool order. Hosts can vary the seed per round so that ties are not
// always resolved in favour of the same identities.
func WithOrderSeed(seed uint64) Option {
	return func(c *config) {
		c.orderSeed = seed
	}
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger types.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
