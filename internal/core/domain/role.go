package domain

import (
	"fmt"
	"slices"
)

// Role is a privilege label attached to a user. The set is closed: only the
// constants below are valid.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DefaultRoles is assigned at registration when the caller supplies none.
var DefaultRoles = Roles{RoleUser}

// Capability names an action that needs more than ownership.
type Capability int

const (
	// CapManageUsers allows listing, updating and deleting any user.
	CapManageUsers Capability = iota + 1
	// CapModifyAnyItem allows updating or deleting items owned by others.
	CapModifyAnyItem
)

// ParseRole converts a raw label into a Role. Matching is exact.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Can reports whether the role grants c.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleAdmin:
		return c == CapManageUsers || c == CapModifyAnyItem
	case RoleUser:
		return false
	default:
		return false
	}
}

// Roles is the ordered role sequence of a user.
type Roles []Role

// Contains reports whether role is present.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// Can reports whether any of the roles grants c.
func (rs Roles) Can(c Capability) bool {
	for _, r := range rs {
		if r.Can(c) {
			return true
		}
	}
	return false
}

// Strings returns the roles as plain labels.
func (rs Roles) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

// ParseRoles converts labels to Roles, failing on the first unknown label.
// The result keeps the input order and any repeats.
func ParseRoles(ss []string) (Roles, error) {
	out := make(Roles, 0, len(ss))
	for _, s := range ss {
		r, err := ParseRole(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
