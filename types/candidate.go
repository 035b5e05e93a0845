package types

import (
	"fmt"
	"regexp"
	"slices"
)

// Candidate is one identity taking part in an assignment round together with the
// role it currently holds.
type Candidate struct {
	// Identity is the stable external key of the participant.
	Identity string `json:"identity" yaml:"identity"`

	// Role is the role currently held; RoleNone for spectators.
	Role Role `json:"role" yaml:"role"`
}

var identityPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateIdentity checks that an identity can be used as a record key.
//
// Identities are 1-128 characters of [A-Za-z0-9_-] so that they map safely onto file
// names and JetStream KV keys.
func ValidateIdentity(identity string) error {
	if !identityPattern.MatchString(identity) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentity, identity)
	}

	return nil
}

// Capacity maps a ranked role to its remaining open slots for one assignment round.
//
// Roles missing from the map have no slots. RoleNone is never capacity-limited.
type Capacity map[Role]int

// CapacityFromPool derives an implicit capacity table from the roles currently held
// in the pool. Spectators (RoleNone) are not counted.
func CapacityFromPool(pool []Candidate) Capacity {
	capacity := make(Capacity)
	for _, c := range pool {
		if c.Role == RoleNone {
			continue
		}
		capacity[c.Role]++
	}

	return capacity
}

// Clone returns an independent copy of the table.
func (c Capacity) Clone() Capacity {
	out := make(Capacity, len(c))
	for role, n := range c {
		out[role] = n
	}

	return out
}

// Remaining returns the open slots of role.
func (c Capacity) Remaining(role Role) int {
	return c[role]
}

// Take claims one slot of role.
//
// Returns:
//   - error: *CapacityViolationError when role has no open slot
func (c Capacity) Take(role Role) error {
	if role == RoleNone {
		return nil
	}
	if c[role] <= 0 {
		return &CapacityViolationError{Role: role, Remaining: c[role]}
	}
	c[role]--

	return nil
}

// Release returns one slot of role to the table.
func (c Capacity) Release(role Role) {
	if role == RoleNone {
		return
	}
	c[role]++
}

// Total returns the sum of open slots over all roles. Spectator slots are
// unlimited, so a RoleNone entry is not counted.
func (c Capacity) Total() int {
	total := 0
	for role, n := range c {
		if role == RoleNone {
			continue
		}
		total += max(n, 0)
	}

	return total
}

// Roles returns the roles present in the table in ascending code order.
func (c Capacity) Roles() []Role {
	roles := make([]Role, 0, len(c))
	for role := range c {
		roles = append(roles, role)
	}
	slices.Sort(roles)

	return roles
}
