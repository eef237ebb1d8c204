package models

import "fmt"

// Role is the closed set of identities the API authorizes against.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleNormal     Role = "Normal"
	RoleStoreOwner Role = "StoreOwner"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleNormal, RoleStoreOwner}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNormal, RoleStoreOwner:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts s into a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
