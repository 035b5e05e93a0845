// Package record implements the per-identity preference record and its text codec.
//
// A Record holds a full permutation of the catalog's ranked roles (most preferred
// first) together with a bounded moving average of the ranks the identity actually
// received. The average feeds the rating used by the assignment strategies so that
// identities who have recently been unlucky get their preferred roles rated more
// favorably.
//
// The persisted form is a single line:
//
//	<averageRank>,<averageCount>:<code1>,<code2>,...,<codeN>
//
// Decode never fails: damaged input is repaired deterministically and the repairs are
// reported through a *types.CorruptRecordError so the caller can log and re-persist.
package record
