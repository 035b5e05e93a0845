// Package types provides core type definitions and interfaces for the rolepref library.
//
// This package contains shared types that are used across multiple packages in the
// rolepref library. By keeping these types in a separate package, we avoid import cycles
// between the root rolepref package and its internal implementations.
//
// Key types:
//   - Role / RoleCatalog: Enumerated role kinds and their stable codes
//   - Candidate / Capacity: Assignment input (identity + current role, open slots per role)
//   - Budget: Deterministic operation counter shared by one assignment invocation
//   - PreferenceRecord / RecordLookup / RecordStorage: Preference data access contracts
//   - AssignmentStrategy: Assignment algorithm interface
//   - Logger / MetricsCollector / Hooks: Observability contracts
package types
