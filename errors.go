package rolepref

import "github.com/arloliu/rolepref/types"

// Sentinel errors re-exported from the types package.
//
// Check them with errors.Is; structured details are available through errors.As on
// *CorruptRecordError and *CapacityViolationError.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrInvalidPool is returned when the candidate pool is malformed.
	ErrInvalidPool = types.ErrInvalidPool

	// ErrRecordsRequired is returned when NewEngine is called without records.
	ErrRecordsRequired = types.ErrRecordsRequired

	// ErrPoolSourceRequired is returned when AssignFrom is called with a nil source.
	ErrPoolSourceRequired = types.ErrPoolSourceRequired

	// ErrAssignmentFailed is returned when the final mapping fails verification.
	ErrAssignmentFailed = types.ErrAssignmentFailed

	// ErrInvalidCatalog is returned for empty, reserved or duplicate role names.
	ErrInvalidCatalog = types.ErrInvalidCatalog

	// ErrUnknownRole is returned when a role name or code is not in the catalog.
	ErrUnknownRole = types.ErrUnknownRole

	// ErrInvalidLength is returned when a preference list does not cover every role.
	ErrInvalidLength = types.ErrInvalidLength

	// ErrInvalidPreferences is returned when a preference list is not a permutation.
	ErrInvalidPreferences = types.ErrInvalidPreferences

	// ErrCorruptRecord indicates a stored record needed repair.
	ErrCorruptRecord = types.ErrCorruptRecord

	// ErrInvalidHash is returned for malformed preference hashes.
	ErrInvalidHash = types.ErrInvalidHash

	// ErrRecordNotFound is returned when no record exists for an identity.
	ErrRecordNotFound = types.ErrRecordNotFound

	// ErrRecordExists is returned when creating a record that already exists.
	ErrRecordExists = types.ErrRecordExists

	// ErrInvalidIdentity is returned when an identity cannot be used as a storage key.
	ErrInvalidIdentity = types.ErrInvalidIdentity

	// ErrStorageUnavailable indicates the storage backend could not be reached.
	ErrStorageUnavailable = types.ErrStorageUnavailable

	// ErrBudgetExceeded is returned by strategies that found nothing within budget.
	ErrBudgetExceeded = types.ErrBudgetExceeded

	// ErrCapacityViolation is returned when a role is assigned beyond its capacity.
	ErrCapacityViolation = types.ErrCapacityViolation

	// ErrUnknownStrategy is returned for unregistered strategy names.
	ErrUnknownStrategy = types.ErrUnknownStrategy
)
