package rolepref

import "github.com/arloliu/rolepref/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, so that internal packages depend on `types` only while users can
// still write `rolepref.Role`, `rolepref.Logger`, etc.
type (
	Role                   = types.Role
	RoleCatalog            = types.RoleCatalog
	Candidate              = types.Candidate
	Capacity               = types.Capacity
	Budget                 = types.Budget
	Status                 = types.Status
	Pool                   = types.Pool
	Request                = types.Request
	Result                 = types.Result
	Diagnostics            = types.Diagnostics
	CorruptRecordError     = types.CorruptRecordError
	CapacityViolationError = types.CapacityViolationError
)

// Re-export interfaces from the internal types package for convenience.
type (
	AssignmentStrategy = types.AssignmentStrategy
	PreferenceRecord   = types.PreferenceRecord
	RecordLookup       = types.RecordLookup
	RecordStorage      = types.RecordStorage
	PoolSource         = types.PoolSource
	MetricsCollector   = types.MetricsCollector
	Logger             = types.Logger
	Hooks              = types.Hooks
)

// RoleNone is the unassigned/spectator role.
const RoleNone = types.RoleNone

// Re-export Status constants from the internal types package.
const (
	StatusScanning        = types.StatusScanning
	StatusSwapFound       = types.StatusSwapFound
	StatusConverged       = types.StatusConverged
	StatusBudgetExhausted = types.StatusBudgetExhausted
	StatusFailed          = types.StatusFailed
)
