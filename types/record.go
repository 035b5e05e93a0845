package types

import "context"

// PreferenceRecord is the read-only view of one identity's ranked role list and rolling
// satisfaction average that assignment strategies consume.
//
// Strategies never mutate records: every write goes through the record store after
// the search has concluded.
type PreferenceRecord interface {
	// Len returns the number of ranked roles (N).
	Len() int

	// Rank returns the 0-based position of role in the preference list, or -1 for
	// roles outside the ranked set.
	Rank(role Role) int

	// Rating returns rank + (averageRank - rank) * weight for a ranked role.
	//
	// Parameters:
	//   - role: Role to rate
	//   - weight: Blend factor between raw rank (0) and historical average (1)
	//
	// Returns:
	//   - float64: The blended rating, lower is better
	//   - bool: false when role is outside the ranked set
	Rating(role Role, weight float64) (float64, bool)

	// Preferences returns a copy of the ranked role list, most preferred first.
	Preferences() []Role

	// AverageRank returns the bounded moving average of ranks received.
	AverageRank() float64

	// AverageCount returns the number of samples folded into the average.
	AverageCount() int
}

// RecordLookup resolves identities to their preference records.
//
// Identities without a record are unranked and treated according to the
// distribute-to-unranked policy.
type RecordLookup interface {
	// Lookup returns the record for identity and whether it exists.
	Lookup(identity string) (PreferenceRecord, bool)
}

// RecordStorage persists encoded preference records keyed by identity.
//
// Implementations:
//   - File: one text file per identity in a directory
//   - NATS KV: one JetStream KV entry per identity
//   - Memory: map-backed storage for tests
//
// All implementations must be safe for concurrent use.
type RecordStorage interface {
	// Load returns the encoded record for identity.
	//
	// Returns:
	//   - []byte: Encoded record
	//   - error: ErrRecordNotFound when no record exists, ErrStorageUnavailable on backend failure
	Load(ctx context.Context, identity string) ([]byte, error)

	// Save writes the encoded record for identity, replacing any previous value.
	Save(ctx context.Context, identity string, data []byte) error

	// Delete removes the record for identity. Deleting a missing record is not an error.
	Delete(ctx context.Context, identity string) error

	// List returns every stored identity in ascending order.
	List(ctx context.Context) ([]string, error)
}
