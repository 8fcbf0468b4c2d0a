package enums

import "fmt"

// UserRole is the simulated operator role; switching roles is a local UI mode
// switch, not authentication.
type UserRole string

const (
	RolePublic   UserRole = "public"
	RoleAdmin    UserRole = "admin"
	RoleAdvisor  UserRole = "advisor"
	RoleMechanic UserRole = "mechanic"
	RoleCashier  UserRole = "cashier"
)

var validUserRoles = []UserRole{
	RolePublic,
	RoleAdmin,
	RoleAdvisor,
	RoleMechanic,
	RoleCashier,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// DefaultView returns the landing view selected when switching to this role.
func (r UserRole) DefaultView() string {
	switch r {
	case RoleMechanic:
		return "jobs"
	case RoleCashier:
		return "pos"
	case RoleAdmin, RoleAdvisor:
		return "dashboard"
	default:
		return "tracking"
	}
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
