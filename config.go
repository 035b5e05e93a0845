package rolepref

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/rolepref/strategy"
	"github.com/arloliu/rolepref/types"
)

// Storage backends accepted by StorageConfig.Backend.
const (
	BackendFile   = "file"
	BackendNATS   = "nats"
	BackendMemory = "memory"
)

// EnvPrefix is the prefix of every environment variable read by ApplyEnv.
const EnvPrefix = "ROLEPREF_"

// StorageConfig selects where preference records are persisted.
type StorageConfig struct {
	// Backend is one of "file", "nats" or "memory".
	Backend string `yaml:"backend" env:"BACKEND"`

	// Directory holds one <identity>.txt file per record (file backend).
	Directory string `yaml:"directory" env:"DIR"`

	// NATSURL is the server URL of the JetStream KV bucket (nats backend).
	NATSURL string `yaml:"natsUrl" env:"NATS_URL"`

	// Bucket is the JetStream KV bucket name (nats backend).
	Bucket string `yaml:"bucket" env:"BUCKET"`

	// OperationTimeout bounds each storage call made outside an assignment.
	// Recommended: 5 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout" env:"OPERATION_TIMEOUT"`
}

// Config is the configuration of the Engine.
//
// Field names follow the YAML keys; every field can also be overridden from the
// environment with the ROLEPREF_ prefix (see ApplyEnv).
type Config struct {
	// Strategy selects the assignment algorithm: "search" (branch-and-bound over the
	// whole pool) or "swap" (improve the current roles pairwise).
	Strategy string `yaml:"strategy" env:"STRATEGY"`

	// WeightMultiplier blends raw rank (0) with the identity's historical average
	// rank (1) when rating a role. 0 is a valid value and is not replaced by SetDefaults.
	// Recommended: 0.25.
	WeightMultiplier float64 `yaml:"weightMultiplier" env:"WEIGHT_MULTIPLIER"`

	// MaxAverageCount caps the number of samples in the rolling average rank, so
	// recent rounds outweigh old ones.
	MaxAverageCount int `yaml:"maxAverageCount" env:"MAX_AVERAGE_COUNT"`

	// MaxOperationBudget is the number of branch attempts or pairwise comparisons a
	// single assignment may spend.
	MaxOperationBudget int `yaml:"maxOperationBudget" env:"MAX_OPERATION_BUDGET"`

	// DistributeToUnranked lets identities without a preference record take part in
	// the assignment instead of keeping their current role.
	DistributeToUnranked bool `yaml:"distributeToUnranked" env:"DISTRIBUTE_TO_UNRANKED"`

	// OrderSeed rotates the pass order of identities. 0 keeps the pool order.
	OrderSeed uint64 `yaml:"orderSeed" env:"ORDER_SEED"`

	// Roles lists the ranked role names in canonical order. Empty selects the
	// default catalog.
	Roles []string `yaml:"roles" env:"ROLES" envSeparator:","`

	// SnapshotDir receives a JSON dump of all records whenever an assignment runs out
	// of budget. Empty disables snapshots.
	SnapshotDir string `yaml:"snapshotDir" env:"SNAPSHOT_DIR"`

	// Storage configures record persistence.
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Strategy:           strategy.SearchName,
		WeightMultiplier:   strategy.DefaultWeightMultiplier,
		MaxAverageCount:    5,
		MaxOperationBudget: 250000,
		SnapshotDir:        "snapshots",
		Storage: StorageConfig{
			Backend:          BackendFile,
			Directory:        "preferences",
			Bucket:           "rolepref-records",
			OperationTimeout: 5 * time.Second,
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// WeightMultiplier, DistributeToUnranked, OrderSeed, Roles and SnapshotDir are left
// as they are because their zero values are meaningful.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Strategy == "" {
		cfg.Strategy = defaults.Strategy
	}
	if cfg.MaxAverageCount == 0 {
		cfg.MaxAverageCount = defaults.MaxAverageCount
	}
	if cfg.MaxOperationBudget == 0 {
		cfg.MaxOperationBudget = defaults.MaxOperationBudget
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.Storage.Backend == BackendFile && cfg.Storage.Directory == "" {
		cfg.Storage.Directory = defaults.Storage.Directory
	}
	if cfg.Storage.Backend == BackendNATS && cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = defaults.Storage.Bucket
	}
	if cfg.Storage.OperationTimeout == 0 {
		cfg.Storage.OperationTimeout = defaults.Storage.OperationTimeout
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - Strategy is a built-in strategy name
//   - 0 <= WeightMultiplier <= 1
//   - MaxAverageCount >= 1
//   - MaxOperationBudget >= 1
//   - Roles build a valid catalog (non-empty, unique, not reserved)
//   - Storage backend is known and has its location configured
//   - Storage.OperationTimeout > 0
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if !slices.Contains(strategy.Names, cfg.Strategy) {
		return fmt.Errorf("%w: Strategy %q must be one of %v", ErrInvalidConfig, cfg.Strategy, strategy.Names)
	}

	if cfg.WeightMultiplier < 0 || cfg.WeightMultiplier > 1 {
		return fmt.Errorf("%w: WeightMultiplier (%v) must be within [0, 1]", ErrInvalidConfig, cfg.WeightMultiplier)
	}

	if cfg.MaxAverageCount < 1 {
		return fmt.Errorf("%w: MaxAverageCount must be >= 1, got %d", ErrInvalidConfig, cfg.MaxAverageCount)
	}

	if cfg.MaxOperationBudget < 1 {
		return fmt.Errorf("%w: MaxOperationBudget must be >= 1, got %d", ErrInvalidConfig, cfg.MaxOperationBudget)
	}

	if _, err := cfg.Catalog(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch cfg.Storage.Backend {
	case BackendFile:
		if cfg.Storage.Directory == "" {
			return fmt.Errorf("%w: Storage.Directory is required for the file backend", ErrInvalidConfig)
		}
	case BackendNATS:
		if cfg.Storage.NATSURL == "" || cfg.Storage.Bucket == "" {
			return fmt.Errorf("%w: Storage.NATSURL and Storage.Bucket are required for the nats backend", ErrInvalidConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown Storage.Backend %q", ErrInvalidConfig, cfg.Storage.Backend)
	}

	if cfg.Storage.OperationTimeout <= 0 {
		return fmt.Errorf("%w: Storage.OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.Storage.OperationTimeout)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewEngine() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.MaxOperationBudget < 1000 {
		logger.Warn(
			"MaxOperationBudget is very low, bounded search will mostly return greedy assignments",
			"maxOperationBudget", cfg.MaxOperationBudget,
			"recommended", 250000,
		)
	}

	if cfg.WeightMultiplier > 0.5 {
		logger.Warn(
			"WeightMultiplier is high, historical averages will dominate current preferences",
			"weightMultiplier", cfg.WeightMultiplier,
			"recommended", strategy.DefaultWeightMultiplier,
		)
	}

	if cfg.MaxAverageCount > 50 {
		logger.Warn(
			"MaxAverageCount is high, averages will react slowly to recent rounds",
			"maxAverageCount", cfg.MaxAverageCount,
			"recommended", "5-20",
		)
	}

	if cfg.SnapshotDir == "" {
		logger.Warn("SnapshotDir is empty, budget exhaustion will not be snapshotted")
	}
}

// TestConfig returns a configuration for fast, side-effect free tests.
//
// Records are kept in memory, snapshots are disabled and the budget is small enough
// to keep pathological pools fast.
//
// Returns:
//   - Config: Configuration for tests
//
// Example:
//
//	cfg := rolepref.TestConfig()
//	cfg.Roles = []string{"a", "b", "c"}
//	engine, err := rolepref.NewEngine(&cfg, records)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.MaxOperationBudget = 10000
	cfg.SnapshotDir = ""
	cfg.Storage.Backend = BackendMemory
	cfg.Storage.Directory = ""
	cfg.Storage.OperationTimeout = time.Second

	return cfg
}

// Catalog builds the role catalog described by Roles.
//
// Returns:
//   - *types.RoleCatalog: Default catalog when Roles is empty
//   - error: ErrInvalidCatalog for invalid role names
func (cfg *Config) Catalog() (*types.RoleCatalog, error) {
	if len(cfg.Roles) == 0 {
		return types.DefaultRoleCatalog(), nil
	}

	return types.NewRoleCatalog(cfg.Roles...)
}

// ApplyEnv overrides cfg with ROLEPREF_* environment variables.
//
// Variables that are not set leave the corresponding field untouched. Storage
// fields use the ROLEPREF_STORAGE_ prefix, e.g. ROLEPREF_STORAGE_NATS_URL.
//
// Parameters:
//   - cfg: Config to override (modified in place)
//
// Returns:
//   - error: Parse error for malformed values
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// LoadConfig reads a YAML configuration file and applies environment overrides.
//
// Fields missing from the file keep their DefaultConfig values. An empty path skips
// the file and only applies the environment.
//
// Parameters:
//   - path: YAML file path, or ""
//
// Returns:
//   - *Config: Defaulted and validated configuration
//   - error: Read, parse or validation error
//
// Example:
//
//	cfg, err := rolepref.LoadConfig("rolepref.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
