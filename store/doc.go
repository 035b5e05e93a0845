// Package store implements the preference record store and its storage backends.
//
// Store keeps every loaded record in memory, keyed by identity, and writes through
// to a types.RecordStorage on every mutation. Records held by the store are never
// mutated in place: edits are applied to a clone which then replaces the original,
// so readers obtained through Lookup always see a consistent record.
//
// Storage backends:
//   - FileStorage: one "<identity>.txt" file per record in a directory
//   - KVStorage: one NATS JetStream KV entry per record
//   - MemoryStorage: map-backed, for tests and ephemeral use
package store
