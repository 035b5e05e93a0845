package rolepref

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	rolepreftest "github.com/arloliu/rolepref/testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "search", cfg.Strategy)
	require.Equal(t, 0.25, cfg.WeightMultiplier)
	require.Equal(t, 5, cfg.MaxAverageCount)
	require.Equal(t, 250000, cfg.MaxOperationBudget)
	require.False(t, cfg.DistributeToUnranked)
	require.Zero(t, cfg.OrderSeed)
	require.Empty(t, cfg.Roles)
	require.Equal(t, "snapshots", cfg.SnapshotDir)
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, "preferences", cfg.Storage.Directory)
	require.Equal(t, "rolepref-records", cfg.Storage.Bucket)
	require.Equal(t, 5*time.Second, cfg.Storage.OperationTimeout)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, "search", cfg.Strategy)
		require.Equal(t, 5, cfg.MaxAverageCount)
		require.Equal(t, 250000, cfg.MaxOperationBudget)
		require.Equal(t, BackendFile, cfg.Storage.Backend)
		require.Equal(t, "preferences", cfg.Storage.Directory)
		require.Equal(t, 5*time.Second, cfg.Storage.OperationTimeout)
	})

	t.Run("keeps meaningful zero values", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Zero(t, cfg.WeightMultiplier)
		require.Empty(t, cfg.SnapshotDir)
		require.Empty(t, cfg.Storage.Bucket)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			Strategy:           "swap",
			WeightMultiplier:   0.5,
			MaxAverageCount:    10,
			MaxOperationBudget: 42,
			Storage: StorageConfig{
				Backend:          BackendNATS,
				NATSURL:          "nats://localhost:4222",
				OperationTimeout: time.Second,
			},
		}
		SetDefaults(&cfg)

		require.Equal(t, "swap", cfg.Strategy)
		require.Equal(t, 0.5, cfg.WeightMultiplier)
		require.Equal(t, 10, cfg.MaxAverageCount)
		require.Equal(t, 42, cfg.MaxOperationBudget)
		require.Equal(t, "rolepref-records", cfg.Storage.Bucket)
		require.Empty(t, cfg.Storage.Directory)
		require.Equal(t, time.Second, cfg.Storage.OperationTimeout)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{name: "defaults", modify: func(*Config) {}, ok: true},
		{name: "swap strategy", modify: func(c *Config) { c.Strategy = "swap" }, ok: true},
		{name: "unknown strategy", modify: func(c *Config) { c.Strategy = "greedy" }},
		{name: "zero weight", modify: func(c *Config) { c.WeightMultiplier = 0 }, ok: true},
		{name: "negative weight", modify: func(c *Config) { c.WeightMultiplier = -0.1 }},
		{name: "weight above one", modify: func(c *Config) { c.WeightMultiplier = 1.5 }},
		{name: "zero average count", modify: func(c *Config) { c.MaxAverageCount = 0 }},
		{name: "negative budget", modify: func(c *Config) { c.MaxOperationBudget = -1 }},
		{name: "custom roles", modify: func(c *Config) { c.Roles = []string{"a", "b"} }, ok: true},
		{name: "duplicate roles", modify: func(c *Config) { c.Roles = []string{"a", "a"} }},
		{name: "unknown backend", modify: func(c *Config) { c.Storage.Backend = "s3" }},
		{name: "file backend without dir", modify: func(c *Config) { c.Storage.Directory = "" }},
		{name: "nats backend without url", modify: func(c *Config) { c.Storage.Backend = BackendNATS }},
		{
			name: "nats backend",
			modify: func(c *Config) {
				c.Storage.Backend = BackendNATS
				c.Storage.NATSURL = "nats://localhost:4222"
			},
			ok: true,
		},
		{name: "memory backend", modify: func(c *Config) { c.Storage.Backend = BackendMemory }, ok: true},
		{name: "zero timeout", modify: func(c *Config) { c.Storage.OperationTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_ValidateWithWarnings(t *testing.T) {
	t.Run("defaults are quiet", func(t *testing.T) {
		logger := rolepreftest.NewRecordingLogger()
		cfg := DefaultConfig()
		cfg.ValidateWithWarnings(logger)

		require.Empty(t, logger.Entries())
	})

	t.Run("warns about unusual values", func(t *testing.T) {
		logger := rolepreftest.NewRecordingLogger()
		cfg := DefaultConfig()
		cfg.MaxOperationBudget = 10
		cfg.WeightMultiplier = 0.9
		cfg.MaxAverageCount = 100
		cfg.SnapshotDir = ""
		cfg.ValidateWithWarnings(logger)

		require.Len(t, logger.Entries(), 4)
		for _, e := range logger.Entries() {
			require.Equal(t, "WARN", e.Level)
		}
	})
}

func TestConfig_Catalog(t *testing.T) {
	t.Run("default catalog", func(t *testing.T) {
		cfg := DefaultConfig()
		catalog, err := cfg.Catalog()

		require.NoError(t, err)
		require.Equal(t, 14, catalog.Len())
	})

	t.Run("configured roles", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Roles = []string{"tank", "healer", "dps"}
		catalog, err := cfg.Catalog()

		require.NoError(t, err)
		require.Equal(t, []string{"tank", "healer", "dps"}, catalog.Names())
	})

	t.Run("invalid roles", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Roles = []string{"tank", ""}
		_, err := cfg.Catalog()

		require.ErrorIs(t, err, ErrInvalidCatalog)
	})
}

func TestConfig_YAML(t *testing.T) {
	yamlConfig := `
strategy: swap
weightMultiplier: 0.4
maxAverageCount: 8
maxOperationBudget: 5000
distributeToUnranked: true
orderSeed: 7
roles: [tank, healer, dps]
snapshotDir: /var/lib/rolepref/snapshots
storage:
  backend: nats
  natsUrl: nats://nats:4222
  bucket: prefs
  operationTimeout: 2s
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(yamlConfig), &cfg))

	require.Equal(t, "swap", cfg.Strategy)
	require.Equal(t, 0.4, cfg.WeightMultiplier)
	require.Equal(t, 8, cfg.MaxAverageCount)
	require.Equal(t, 5000, cfg.MaxOperationBudget)
	require.True(t, cfg.DistributeToUnranked)
	require.Equal(t, uint64(7), cfg.OrderSeed)
	require.Equal(t, []string{"tank", "healer", "dps"}, cfg.Roles)
	require.Equal(t, "/var/lib/rolepref/snapshots", cfg.SnapshotDir)
	require.Equal(t, BackendNATS, cfg.Storage.Backend)
	require.Equal(t, "nats://nats:4222", cfg.Storage.NATSURL)
	require.Equal(t, "prefs", cfg.Storage.Bucket)
	require.Equal(t, 2*time.Second, cfg.Storage.OperationTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rolepref.yaml")
		require.NoError(t, os.WriteFile(path, []byte("strategy: swap\nmaxOperationBudget: 900\n"), 0o600))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		require.Equal(t, "swap", cfg.Strategy)
		require.Equal(t, 900, cfg.MaxOperationBudget)
		require.Equal(t, 0.25, cfg.WeightMultiplier)
		require.Equal(t, "preferences", cfg.Storage.Directory)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rolepref.yaml")
		require.NoError(t, os.WriteFile(path, []byte("maxOperationBudget: 900\n"), 0o600))
		t.Setenv("ROLEPREF_MAX_OPERATION_BUDGET", "1234")
		t.Setenv("ROLEPREF_ROLES", "a,b,c")
		t.Setenv("ROLEPREF_STORAGE_BACKEND", "memory")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		require.Equal(t, 1234, cfg.MaxOperationBudget)
		require.Equal(t, []string{"a", "b", "c"}, cfg.Roles)
		require.Equal(t, BackendMemory, cfg.Storage.Backend)
	})

	t.Run("no file", func(t *testing.T) {
		cfg, err := LoadConfig("")

		require.NoError(t, err)
		require.Equal(t, "search", cfg.Strategy)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rolepref.yaml")
		require.NoError(t, os.WriteFile(path, []byte("strategy: [swap\n"), 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rolepref.yaml")
		require.NoError(t, os.WriteFile(path, []byte("weightMultiplier: 3\n"), 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("malformed env", func(t *testing.T) {
		t.Setenv("ROLEPREF_MAX_AVERAGE_COUNT", "many")

		_, err := LoadConfig("")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
