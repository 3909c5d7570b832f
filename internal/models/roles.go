package models

import (
	"fmt"
	"strings"
)

// Role is the authorization class gating login. The integer values are the
// on-disk encoding and must not change.
type Role int

const (
	RoleCustomer Role = 0
	RoleManager  Role = 1
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleManager
}

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleManager:
		return "Manager"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole accepts the role name in any case or its numeric encoding.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "0":
		return RoleCustomer, nil
	case "manager", "1":
		return RoleManager, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// MarshalText encodes the role by name so JSON payloads read "Customer" or
// "Manager".
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("unknown role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
