package types

import (
	"fmt"
	"strings"
)

// Role identifies one assignable role kind by its stable code.
//
// Codes are the small integers used by the persisted record format. A role code is
// only meaningful together with the RoleCatalog that issued it.
type Role int

// RoleNone is the sentinel "unassigned/spectator" role. It lies outside every ranked set.
const RoleNone Role = -1

// DefaultRoleNames lists the default ranked roles in canonical order.
var DefaultRoleNames = []string{
	"classd",
	"scientist",
	"facilityguard",
	"mtf.cadet",
	"mtf.lieutenant",
	"mtf.commander",
	"chaosinsurgency",
	"scp.049",
	"scp.079",
	"scp.096",
	"scp.106",
	"scp.173",
	"scp.939-53",
	"scp.939-89",
}

// RoleCatalog is the immutable table of ranked roles.
//
// The catalog fixes the canonical role order (used for deterministic repair and for
// implicit "first role with capacity" choices) and the name ↔ code mapping used for
// persistence. It is constructed once and passed explicitly to every component.
type RoleCatalog struct {
	names  []string
	byName map[string]Role
}

// NewRoleCatalog creates a catalog from role names in canonical order.
//
// Codes are assigned by position: the first name gets code 0.
//
// Parameters:
//   - names: Role names; must be non-empty and unique (case-insensitive). "none" and
//     "spectator" are reserved for RoleNone
//
// Returns:
//   - *RoleCatalog: Immutable catalog
//   - error: ErrInvalidCatalog when names are empty, blank, reserved or duplicated
func NewRoleCatalog(names ...string) (*RoleCatalog, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no roles", ErrInvalidCatalog)
	}

	c := &RoleCatalog{
		names:  make([]string, len(names)),
		byName: make(map[string]Role, len(names)),
	}
	for i, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("%w: blank role name at position %d", ErrInvalidCatalog, i)
		}
		if key == "none" || key == "spectator" {
			return nil, fmt.Errorf("%w: reserved role name %q", ErrInvalidCatalog, name)
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, name)
		}
		c.names[i] = key
		c.byName[key] = Role(i)
	}

	return c, nil
}

// DefaultRoleCatalog returns a catalog of DefaultRoleNames.
func DefaultRoleCatalog() *RoleCatalog {
	c, err := NewRoleCatalog(DefaultRoleNames...)
	if err != nil {
		panic(err) // static table
	}

	return c
}

// Len returns the number of ranked roles (N).
func (c *RoleCatalog) Len() int {
	return len(c.names)
}

// Roles returns all ranked roles in canonical order.
func (c *RoleCatalog) Roles() []Role {
	roles := make([]Role, len(c.names))
	for i := range roles {
		roles[i] = Role(i)
	}

	return roles
}

// Names returns all role names in canonical order.
func (c *RoleCatalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Contains reports whether role belongs to the ranked set.
func (c *RoleCatalog) Contains(role Role) bool {
	return role >= 0 && int(role) < len(c.names)
}

// Name returns the role name, "none" for RoleNone and "unknown(<code>)" otherwise.
func (c *RoleCatalog) Name(role Role) string {
	if role == RoleNone {
		return "none"
	}
	if !c.Contains(role) {
		return fmt.Sprintf("unknown(%d)", int(role))
	}

	return c.names[role]
}

// Code returns the persisted code of a role.
func (c *RoleCatalog) Code(role Role) int {
	return int(role)
}

// FromCode resolves a persisted code.
func (c *RoleCatalog) FromCode(code int) (Role, bool) {
	role := Role(code)
	if !c.Contains(role) {
		return RoleNone, false
	}

	return role, true
}

// Lookup resolves a role by exact (case-insensitive) name.
func (c *RoleCatalog) Lookup(name string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "none" || key == "spectator" {
		return RoleNone, true
	}
	role, ok := c.byName[key]

	return role, ok
}

// Match resolves a role by the closest name.
//
// Exact matches win; otherwise the role with the smallest edit distance is returned,
// ties going to the earlier role in canonical order. Useful for operator input such as
// "scientst" or "scp049".
//
// Returns:
//   - Role: Closest ranked role
//   - int: Edit distance of the match (0 for exact)
func (c *RoleCatalog) Match(name string) (Role, int) {
	if role, ok := c.Lookup(name); ok && role != RoleNone {
		return role, 0
	}

	key := strings.ToLower(strings.TrimSpace(name))
	best, bestDist := Role(0), -1
	for i, candidate := range c.names {
		d := levenshtein(key, candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = Role(i), d
		}
	}

	return best, bestDist
}

func levenshtein(s, t string) int {
	a, b := []rune(s), []rune(t)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
