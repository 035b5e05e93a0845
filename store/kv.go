package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/rolepref/internal/kvutil"
	"github.com/arloliu/rolepref/internal/natsutil"
	"github.com/arloliu/rolepref/types"
)

// KVStorage stores one NATS JetStream KV entry per record, keyed by identity.
type KVStorage struct {
	kv jetstream.KeyValue
}

// Compile-time assertion that KVStorage implements RecordStorage.
var _ types.RecordStorage = (*KVStorage)(nil)

// NewKVStorage opens (or creates) the record bucket and returns a storage over it.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - bucket: KV bucket name
//
// Returns:
//   - *KVStorage: Storage instance
//   - error: ErrStorageUnavailable when the bucket cannot be created or opened
//
// Example:
//
//	nc, _ := nats.Connect(url)
//	js, _ := jetstream.New(nc)
//	storage, err := store.NewKVStorage(ctx, js, "rolepref-records")
func NewKVStorage(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStorage, error) {
	kv, err := kvutil.EnsureKVBucketWithRetry(ctx, js, kvutil.RecordBucketConfig(bucket), 3)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
	}

	return &KVStorage{kv: kv}, nil
}

// NewKVStorageFromBucket wraps an already opened KV bucket.
func NewKVStorageFromBucket(kv jetstream.KeyValue) *KVStorage {
	return &KVStorage{kv: kv}
}

// Load implements types.RecordStorage.
func (s *KVStorage) Load(ctx context.Context, identity string) ([]byte, error) {
	if err := types.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	entry, err := s.kv.Get(ctx, identity)
	if err != nil {
		return nil, natsutil.WrapKVError("load", identity, err)
	}

	return entry.Value(), nil
}

// Save implements types.RecordStorage.
func (s *KVStorage) Save(ctx context.Context, identity string, data []byte) error {
	if err := types.ValidateIdentity(identity); err != nil {
		return err
	}

	_, err := s.kv.Put(ctx, identity, data)

	return natsutil.WrapKVError("save", identity, err)
}

// Delete implements types.RecordStorage.
func (s *KVStorage) Delete(ctx context.Context, identity string) error {
	if err := types.ValidateIdentity(identity); err != nil {
		return err
	}

	err := natsutil.WrapKVError("delete", identity, s.kv.Delete(ctx, identity))
	if err != nil && !isNotFound(err) {
		return err
	}

	return nil
}

// List implements types.RecordStorage.
func (s *KVStorage) List(ctx context.Context) ([]string, error) {
	keys, err := kvutil.Keys(ctx, s.kv)
	if err != nil {
		return nil, natsutil.WrapKVError("list", s.kv.Bucket(), err)
	}
	slices.Sort(keys)

	return keys, nil
}
