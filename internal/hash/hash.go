// Package hash provides the deterministic xxh3-based hashing used for identity
// ordering, per-identity shuffle seeds and preference fingerprints.
package hash

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"
)

// Identity computes a 64-bit hash of an identity using XXH3.
//
// A zero seed uses unseeded XXH3 so hashes stay stable across processes.
func Identity(identity string, seed uint64) uint64 {
	if seed != 0 {
		return xxh3.HashStringSeed(identity, seed)
	}

	return xxh3.HashString(identity)
}

// ShuffleSeed derives the PCG seed pair used to shuffle a new identity's preferences.
//
// Parameters:
//   - identity: Identity the record is created for
//   - seed: Store-wide seed
//
// Returns:
//   - uint64, uint64: Seeds for rand.NewPCG
func ShuffleSeed(identity string, seed uint64) (uint64, uint64) {
	h := Identity(identity, seed)

	var sb [8]byte
	binary.LittleEndian.PutUint64(sb[:], seed)

	return h, xxh3.HashSeed(sb[:], h)
}

// Order returns the indexes of ids sorted by their seeded hash.
//
// Ties (identical identities) keep input order. The result is a permutation of
// 0..len(ids)-1 and is identical for identical input and seed.
//
// Example:
//
//	for _, i := range hash.Order(identities, seed) {
//	    visit(identities[i])
//	}
func Order(ids []string, seed uint64) []int {
	hashes := make([]uint64, len(ids))
	order := make([]int, len(ids))
	for i, id := range ids {
		hashes[i] = Identity(id, seed)
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case hashes[a] < hashes[b]:
			return -1
		case hashes[a] > hashes[b]:
			return 1
		default:
			return 0
		}
	})

	return order
}

// Fingerprint folds a sequence of role codes into one 64-bit hash.
//
// Each code is hashed with the previous hash as seed, so the fingerprint depends on
// order and is zero-allocation.
func Fingerprint(codes []int) uint64 {
	var h uint64
	var cb [8]byte
	for _, code := range codes {
		binary.LittleEndian.PutUint64(cb[:], uint64(code)) //nolint:gosec
		h = xxh3.HashSeed(cb[:], h)
	}

	return h
}
