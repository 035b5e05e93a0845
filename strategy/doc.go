// Package strategy provides the built-in assignment strategy implementations.
//
// Assignment strategies decide which role every identity in a pool receives, given the
// open capacity per role and each identity's preference record. The package includes
// two built-in strategies:
//
//   - BoundedSearch: Depth-first branch-and-bound over the whole assignment space (recommended)
//   - PairwiseSwap: Incremental local search that swaps roles between pairs of identities
//
// # Strategy Selection Guide
//
// BoundedSearch:
//   - Use at round start, when every identity needs a role
//   - Maximizes the summed utility N - rating across all ranked identities
//   - Returns the best assignment found so far once the operation budget runs out
//   - Configuration: weight multiplier, distribute-to-unranked, order seed
//
// PairwiseSwap:
//   - Use when roles were already handed out and should only be improved
//   - Never changes how many identities hold each role
//   - Cheap per step; converges when no improving swap is left
//
// Both strategies share the Comparator rating model:
//
//	rating(role) = rank(role) + (averageRank - rank(role)) * weightMultiplier
//
// Lower ratings are better. A weight multiplier of 0 uses raw ranks; larger values let
// identities that were unlucky in past rounds win ties against luckier ones.
//
// Custom strategies can be implemented by satisfying the types.AssignmentStrategy interface.
package strategy
