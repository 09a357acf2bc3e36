package mechshop

import (
	"strings"

	"github.com/coolx3/mechshop-go/routes"
)

// Role encodes the access tier associated with a session.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMechanic Role = "mechanic"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes a role string, returning false for unknown values.
func ParseRole(val string) (Role, bool) {
	switch Role(strings.TrimSpace(strings.ToLower(val))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleMechanic:
		return RoleMechanic, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Valid reports whether the role is one of the three known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleMechanic, RoleAdmin:
		return true
	}
	return false
}

// loginRoute returns the role-specific login endpoint. Admin logins go
// through the mechanic endpoint; admin is a hydrated promotion, not a
// login path of its own.
func (r Role) loginRoute() string {
	if r == RoleCustomer {
		return routes.CustomersLogin
	}
	return routes.MechanicsLogin
}

// profileRoute returns the role-specific profile endpoint. The admin
// flag lives on the mechanic record, so admin sessions hydrate from the
// mechanic profile.
func (r Role) profileRoute() string {
	if r == RoleCustomer {
		return routes.CustomersProfile
	}
	return routes.MechanicsProfile
}
