// Package cli implements the rolepref administration commands.
//
// Every command loads the configuration, opens the configured record storage and
// reads all records into a store before running. Global flags override the storage
// settings of the configuration file.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/arloliu/rolepref"
	"github.com/arloliu/rolepref/internal/logging"
	"github.com/arloliu/rolepref/store"
	"github.com/arloliu/rolepref/types"
)

// app holds the global flags and the resources opened for one command run.
type app struct {
	configPath string
	dir        string
	natsURL    string
	verbose    bool

	cfg     *rolepref.Config
	catalog *types.RoleCatalog
	store   *store.Store
	logger  types.Logger
	closers []func()
}

// NewRootCmd builds the rolepref command tree.
//
// Parameters:
//   - version: Version string reported by --version
//
// Returns:
//   - *cobra.Command: Root command with all subcommands registered
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "rolepref",
		Short:   "Preference-driven role assignment",
		Version: version,
		Long: `rolepref manages per-identity role preference records and assigns roles to
a pool of identities so that as many as possible get a role they ranked highly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.dir, "dir", "", "Record directory (selects the file backend)")
	flags.StringVar(&a.natsURL, "nats", "", "NATS server URL (selects the nats backend)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(a.recordsCmd())
	rootCmd.AddCommand(a.assignCmd())
	rootCmd.AddCommand(a.dumpCmd())
	rootCmd.AddCommand(a.rolesCmd())

	return rootCmd
}

// open loads the configuration and all records.
func (a *app) open(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = logging.NewText(cmd.ErrOrStderr(), level)

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	a.catalog = catalog

	ctx, cancel := a.timeout(cmd)
	defer cancel()

	storage, err := a.openStorage(ctx)
	if err != nil {
		return err
	}

	a.store = store.New(catalog, storage, store.WithLogger(a.logger))
	if err := a.store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	a.logger.Debug("records loaded", "count", a.store.Len(), "backend", cfg.Storage.Backend)

	return nil
}

// close releases the resources opened by open in reverse order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// loadConfig reads the configuration file and applies the storage flags.
func (a *app) loadConfig() (*rolepref.Config, error) {
	cfg, err := rolepref.LoadConfig(a.configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case a.natsURL != "":
		cfg.Storage.Backend = rolepref.BackendNATS
		cfg.Storage.NATSURL = a.natsURL
	case a.dir != "":
		cfg.Storage.Backend = rolepref.BackendFile
		cfg.Storage.Directory = a.dir
	}

	rolepref.SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// openStorage creates the configured record storage backend.
func (a *app) openStorage(ctx context.Context) (types.RecordStorage, error) {
	switch a.cfg.Storage.Backend {
	case rolepref.BackendNATS:
		nc, err := nats.Connect(a.cfg.Storage.NATSURL, nats.Name("rolepref-cli"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.closers = append(a.closers, nc.Close)

		js, err := jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context: %w", err)
		}

		return store.NewKVStorage(ctx, js, a.cfg.Storage.Bucket)
	case rolepref.BackendMemory:
		return store.NewMemoryStorage(), nil
	default:
		return store.NewFileStorage(a.cfg.Storage.Directory)
	}
}

// timeout derives a context bounded by the storage operation timeout.
func (a *app) timeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := rolepref.DefaultConfig().Storage.OperationTimeout
	if a.cfg != nil {
		timeout = a.cfg.Storage.OperationTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// run wraps a command body with open and close.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd); err != nil {
			a.close()
			return err
		}
		defer a.close()

		return fn(cmd, args)
	}
}
