package enums

import "fmt"

// Role is the closed set of platform-level roles carried on a user profile.
type Role string

const (
	RoleMerchant   Role = "merchant"
	RoleSuperAdmin Role = "super_admin"
)

var validRoles = []Role{
	RoleMerchant,
	RoleSuperAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanAdministerPlatform reports whether the role grants the privileged
// super-admin capability. Guards call this instead of comparing strings.
func (r Role) CanAdministerPlatform() bool {
	return r == RoleSuperAdmin
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
