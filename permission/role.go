package permission

import (
	"errors"
	"strings"
)

// ErrInvalidRole is returned by strict role parsing for identifiers outside
// the known role set.
var ErrInvalidRole = errors.New("invalid role")

// Role is a user role identifier as carried on the session user profile.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleAdmin          Role = "ADMIN"
	RoleKeitosan       Role = "KEITOSAN"
	RoleTantosha       Role = "TANTOSHA"
	RoleCoordinator    Role = "COORDINATOR"
	RoleKanrininsha    Role = "KANRININSHA"
	RoleEmployee       Role = "EMPLOYEE"
	RoleContractWorker Role = "CONTRACT_WORKER"
)

var allRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleKeitosan,
	RoleTantosha,
	RoleCoordinator,
	RoleKanrininsha,
	RoleEmployee,
	RoleContractWorker,
}

// AllRoles returns every known role in declaration order.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Known reports whether r is one of the eight defined roles.
func (r Role) Known() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts s into a [Role]. Surrounding whitespace is ignored;
// matching is case-sensitive. Unknown identifiers return [ErrInvalidRole].
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Known() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// MustRole is like [ParseRole] but panics on unknown identifiers. Intended
// for static tables and tests.
func MustRole(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		panic(err.Error() + ": " + s)
	}
	return r
}

// RoleCategory groups roles for display purposes only. It has no effect on
// access decisions.
type RoleCategory string

const (
	CategoryCore   RoleCategory = "core"
	CategoryModern RoleCategory = "modern"
	CategoryLegacy RoleCategory = "legacy"
)

// Categories returns the categories in display order.
func Categories() []RoleCategory {
	return []RoleCategory{CategoryCore, CategoryModern, CategoryLegacy}
}
