package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/rolepref/internal/hash"
	"github.com/arloliu/rolepref/internal/hooks"
	"github.com/arloliu/rolepref/internal/logging"
	"github.com/arloliu/rolepref/internal/metrics"
	"github.com/arloliu/rolepref/record"
	"github.com/arloliu/rolepref/types"
)

// Store is the keyed collection of preference records.
//
// Reads (Lookup, Get, Contains, Len, Identities, Snapshot) are lock-free. Mutations
// are serialized and write through to storage before the in-memory record is
// replaced, except RecordRound which keeps the in-memory update when persistence
// fails.
type Store struct {
	catalog *types.RoleCatalog
	storage types.RecordStorage
	records *xsync.Map[string, *record.Record]
	mu      sync.Mutex // serializes mutations

	seed    uint64
	logger  types.Logger
	metrics types.MetricsCollector
	hooks   types.Hooks
}

// Compile-time assertion that Store implements RecordLookup.
var _ types.RecordLookup = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger types.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m types.MetricsCollector) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithHooks sets the store hooks. Only OnRecordRepaired and OnError are used.
func WithHooks(h *types.Hooks) Option {
	return func(s *Store) {
		s.hooks = hooks.Complete(h)
	}
}

// WithSeed fixes the seed used to shuffle preferences of new records.
//
// With a fixed seed the same identity always receives the same initial order.
// Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(s *Store) {
		s.seed = seed
	}
}

// New creates an empty store over storage. Call Load to read persisted records.
//
// Parameters:
//   - catalog: Role catalog all records are built against
//   - storage: Persistence backend
//   - opts: Optional configuration
//
// Returns:
//   - *Store: Store instance
//
// Example:
//
//	storage, _ := store.NewFileStorage("/var/lib/rolepref")
//	s := store.New(catalog, storage, store.WithLogger(logger))
//	if err := s.Load(ctx); err != nil {
//	    return err
//	}
func New(catalog *types.RoleCatalog, storage types.RecordStorage, opts ...Option) *Store {
	s := &Store{
		catalog: catalog,
		storage: storage,
		records: xsync.NewMap[string, *record.Record](),
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		hooks:   hooks.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == 0 {
		s.seed = rand.Uint64() //nolint:gosec // shuffle seed, not security sensitive
	}

	return s
}

// Catalog returns the role catalog.
func (s *Store) Catalog() *types.RoleCatalog {
	return s.catalog
}

// Load reads every stored record into memory, replacing the current contents.
//
// Corrupt records are repaired, logged, reported through OnRecordRepaired and
// re-persisted; they never fail the load. Records that vanish between listing and
// reading are skipped.
//
// Returns:
//   - error: ErrStorageUnavailable when the backend cannot be listed or read
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.list(ctx)
	if err != nil {
		return err
	}

	loaded := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if err := types.ValidateIdentity(id); err != nil {
			s.logger.Warn("skipping stored record with invalid identity", "identity", id)
			continue
		}
		rec, err := s.read(ctx, id)
		if errors.Is(err, types.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		s.records.Store(id, rec)
		loaded[id] = struct{}{}
	}

	s.records.Range(func(id string, _ *record.Record) bool {
		if _, ok := loaded[id]; !ok {
			s.records.Delete(id)
		}
		return true
	})
	s.metrics.RecordStoreSize(s.records.Size())
	s.logger.Info("preference records loaded", "count", len(loaded))

	return nil
}

// Reload re-reads one identity from storage.
//
// A record that no longer exists in storage is dropped from memory.
//
// Returns:
//   - error: ErrRecordNotFound when storage has no record for identity
func (s *Store) Reload(ctx context.Context, identity string) error {
	if err := types.ValidateIdentity(identity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(ctx, identity)
	if errors.Is(err, types.ErrRecordNotFound) {
		s.records.Delete(identity)
		s.metrics.RecordStoreSize(s.records.Size())
	}
	if err != nil {
		return err
	}
	s.records.Store(identity, rec)
	s.metrics.RecordStoreSize(s.records.Size())

	return nil
}

// Create adds a record with a shuffled preference order for a new identity.
//
// Returns:
//   - *record.Record: Copy of the created record
//   - error: ErrRecordExists, ErrInvalidIdentity or a storage error
func (s *Store) Create(ctx context.Context, identity string) (*record.Record, error) {
	if err := types.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records.Load(identity); ok {
		return nil, fmt.Errorf("%w: %q", types.ErrRecordExists, identity)
	}

	rec := record.NewShuffled(s.catalog, rand.New(rand.NewPCG(hash.ShuffleSeed(identity, s.seed)))) //nolint:gosec
	if err := s.commit(ctx, identity, rec); err != nil {
		return nil, err
	}
	s.logger.Info("preference record created", "identity", identity)

	return rec.Clone(), nil
}

// Put sets the preferences of identity, creating the record when it does not exist.
func (s *Store) Put(ctx context.Context, identity string, prefs []types.Role) (*record.Record, error) {
	if err := types.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		rec *record.Record
		err error
	)
	if current, ok := s.records.Load(identity); ok {
		rec = current.Clone()
		err = rec.SetPreferences(prefs)
	} else {
		rec, err = record.New(s.catalog, prefs)
	}
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, identity, rec); err != nil {
		return nil, err
	}

	return rec.Clone(), nil
}

// SetPreferences replaces the preference order of an existing record.
//
// Returns:
//   - error: ErrRecordNotFound, ErrInvalidLength, ErrInvalidPreferences or a storage
//     error; the stored record is unchanged on error
func (s *Store) SetPreferences(ctx context.Context, identity string, prefs []types.Role) error {
	return s.update(ctx, identity, func(rec *record.Record) error {
		return rec.SetPreferences(prefs)
	})
}

// MoveRole places role at rank in identity's preferences by swapping ranks.
func (s *Store) MoveRole(ctx context.Context, identity string, role types.Role, rank int) error {
	return s.update(ctx, identity, func(rec *record.Record) error {
		return rec.MoveRole(role, rank)
	})
}

// Remove deletes identity's record from storage and memory.
//
// Returns:
//   - error: ErrRecordNotFound when no record exists
func (s *Store) Remove(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records.Load(identity); !ok {
		return fmt.Errorf("%w: %q", types.ErrRecordNotFound, identity)
	}

	start := time.Now()
	err := s.storage.Delete(ctx, identity)
	s.metrics.RecordStorageOperation("delete", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return fmt.Errorf("delete record %q: %w", identity, err)
	}
	s.records.Delete(identity)
	s.metrics.RecordStoreSize(s.records.Size())
	s.logger.Info("preference record removed", "identity", identity)

	return nil
}

// Lookup implements types.RecordLookup.
func (s *Store) Lookup(identity string) (types.PreferenceRecord, bool) {
	rec, ok := s.records.Load(identity)
	if !ok {
		return nil, false
	}

	return rec, true
}

// Get returns a copy of identity's record.
func (s *Store) Get(identity string) (*record.Record, bool) {
	rec, ok := s.records.Load(identity)
	if !ok {
		return nil, false
	}

	return rec.Clone(), true
}

// Contains reports whether identity has a record.
func (s *Store) Contains(identity string) bool {
	_, ok := s.records.Load(identity)
	return ok
}

// Len returns the number of records in memory.
func (s *Store) Len() int {
	return s.records.Size()
}

// Identities returns all identities with a record in ascending order.
func (s *Store) Identities() []string {
	ids := make([]string, 0, s.records.Size())
	s.records.Range(func(id string, _ *record.Record) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)

	return ids
}

// RecordRound folds the ranks achieved in one assignment round into each record's
// moving average and persists the result.
//
// Identities without a record are ignored. The in-memory update always applies;
// persistence failures are logged and returned joined.
//
// Parameters:
//   - ctx: Context for storage writes
//   - ranks: Achieved rank per ranked identity
//   - maxCount: Cap of the moving average sample count
func (s *Store) RecordRound(ctx context.Context, ranks map[string]int, maxCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(ranks))
	for id := range ranks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var errs []error
	for _, id := range ids {
		current, ok := s.records.Load(id)
		if !ok {
			continue
		}
		rec := current.Clone()
		rec.UpdateAverage(ranks[id], maxCount)
		s.records.Store(id, rec)

		if err := s.save(ctx, id, rec); err != nil {
			s.logger.Error("failed to persist preference record", "identity", id, "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Store) update(ctx context.Context, identity string, edit func(*record.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records.Load(identity)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrRecordNotFound, identity)
	}
	rec := current.Clone()
	if err := edit(rec); err != nil {
		return err
	}

	return s.commit(ctx, identity, rec)
}

// commit persists rec and then publishes it. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, identity string, rec *record.Record) error {
	if err := s.save(ctx, identity, rec); err != nil {
		return err
	}
	s.records.Store(identity, rec)
	s.metrics.RecordStoreSize(s.records.Size())

	return nil
}

func (s *Store) save(ctx context.Context, identity string, rec *record.Record) error {
	start := time.Now()
	err := s.storage.Save(ctx, identity, record.Encode(rec))
	s.metrics.RecordStorageOperation("save", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return fmt.Errorf("save record %q: %w", identity, err)
	}

	return nil
}

func (s *Store) list(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.storage.List(ctx)
	s.metrics.RecordStorageOperation("list", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return ids, nil
}

// read loads, decodes and if needed repairs one record. Callers hold s.mu.
func (s *Store) read(ctx context.Context, identity string) (*record.Record, error) {
	start := time.Now()
	data, err := s.storage.Load(ctx, identity)
	s.metrics.RecordStorageOperation("load", time.Since(start).Seconds(), err == nil || isNotFound(err))
	if err != nil {
		return nil, fmt.Errorf("load record %q: %w", identity, err)
	}

	rec, repair := record.Decode(s.catalog, data)
	if repair == nil {
		return rec, nil
	}

	repair.Identity = identity
	s.logger.Error("preference record repaired", "identity", identity, "repairs", repair.Repairs)
	s.metrics.RecordRecordRepaired()
	if err := s.hooks.OnRecordRepaired(ctx, identity, repair); err != nil {
		s.logger.Warn("record repaired hook failed", "identity", identity, "error", err)
	}
	if err := s.save(ctx, identity, rec); err != nil {
		s.logger.Error("failed to persist repaired record", "identity", identity, "error", err)
		if hookErr := s.hooks.OnError(ctx, err); hookErr != nil {
			s.logger.Error("error hook error", "identity", identity, "error", hookErr)
		}
	}

	return rec, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, types.ErrRecordNotFound)
}
