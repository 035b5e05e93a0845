package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the rolepref library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Engine, Record, Store, Strategy)
//   - Use consistent messages across similar error types

// Engine errors - Public API errors returned by the Engine.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidPool is returned when the candidate pool is malformed, such as a
	// duplicate identity or a role outside the catalog.
	ErrInvalidPool = errors.New("invalid candidate pool")

	// ErrRecordsRequired is returned when the engine is created without a record store.
	ErrRecordsRequired = errors.New("record store is required")

	// ErrPoolSourceRequired is returned when AssignFrom is called with a nil source.
	ErrPoolSourceRequired = errors.New("pool source is required")

	// ErrAssignmentFailed is returned when the final mapping fails verification.
	ErrAssignmentFailed = errors.New("assignment failed")
)

// Catalog errors - Role catalog construction errors.
var (
	// ErrInvalidCatalog is returned when a role catalog has empty or duplicate names.
	ErrInvalidCatalog = errors.New("invalid role catalog")

	// ErrUnknownRole is returned when a role name or code is not in the catalog.
	ErrUnknownRole = errors.New("unknown role")
)

// Record errors - Preference record errors.
var (
	// ErrInvalidLength is returned when a preference list does not cover every role.
	ErrInvalidLength = errors.New("preference list length does not match role count")

	// ErrInvalidPreferences is returned when a preference list repeats a role or names
	// one outside the catalog.
	ErrInvalidPreferences = errors.New("preference list is not a permutation of roles")

	// ErrCorruptRecord indicates a stored record needed repair while decoding.
	ErrCorruptRecord = errors.New("corrupt preference record")

	// ErrInvalidHash is returned when a hex preference hash cannot be parsed.
	ErrInvalidHash = errors.New("invalid preference hash")
)

// Store errors - Record store and storage backend errors.
var (
	// ErrRecordNotFound is returned when no record exists for an identity.
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists is returned when creating a record that already exists.
	ErrRecordExists = errors.New("record already exists")

	// ErrInvalidIdentity is returned when an identity cannot be used as a storage key.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrStorageUnavailable indicates the storage backend could not be reached.
	// The in-memory records stay authoritative for the running process.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNoKeysFound is returned when NATS KV returns no keys (expected condition).
	ErrNoKeysFound = errors.New("no keys found")
)

// Strategy errors - Assignment strategy errors.
var (
	// ErrBudgetExceeded is returned when no feasible assignment was found within
	// the operation budget.
	ErrBudgetExceeded = errors.New("operation budget exceeded")

	// ErrCapacityViolation is returned when a role is assigned beyond its capacity.
	ErrCapacityViolation = errors.New("role capacity exceeded")

	// ErrUnknownStrategy is returned when a strategy name is not registered.
	ErrUnknownStrategy = errors.New("unknown assignment strategy")
)

// CorruptRecordError describes the repairs applied to a stored record.
//
// Decoding never fails on damaged data: the record is repaired and this error reports
// what was fixed so the caller can log it and re-persist the record.
type CorruptRecordError struct {
	// Identity is the owner of the record, when known.
	Identity string

	// Repairs lists each repair in the order it was applied.
	Repairs []string
}

// Error implements the error interface.
func (e *CorruptRecordError) Error() string {
	if e.Identity == "" {
		return fmt.Sprintf("%s: %s", ErrCorruptRecord, strings.Join(e.Repairs, "; "))
	}

	return fmt.Sprintf("%s %q: %s", ErrCorruptRecord, e.Identity, strings.Join(e.Repairs, "; "))
}

// Unwrap returns ErrCorruptRecord.
func (e *CorruptRecordError) Unwrap() error {
	return ErrCorruptRecord
}

// Add appends a repair description.
func (e *CorruptRecordError) Add(format string, args ...any) {
	e.Repairs = append(e.Repairs, fmt.Sprintf(format, args...))
}

// CapacityViolationError reports a role that was assigned past its open slots.
type CapacityViolationError struct {
	// Role is the over-assigned role.
	Role Role

	// Remaining is the slot count left when the assignment was attempted.
	Remaining int
}

// Error implements the error interface.
func (e *CapacityViolationError) Error() string {
	return fmt.Sprintf("%s: role %d has %d open slots", ErrCapacityViolation, e.Role, e.Remaining)
}

// Unwrap returns ErrCapacityViolation.
func (e *CapacityViolationError) Unwrap() error {
	return ErrCapacityViolation
}

// IsNoKeysFoundError checks if an error indicates that no keys were found in NATS KV.
//
// This function handles NATS-specific "no keys found" errors which may come as:
//   - Direct error: "nats: no keys found"
//   - Wrapped error: "failed to list KV keys: nats: no keys found"
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates no keys were found, false otherwise
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}
