package domain

import "strings"

// Role is the closed set of privilege levels a user can hold.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleManager      Role = "Manager"
	RoleEmployee     Role = "Employee"
	RoleCustomer     Role = "Customer"
	RoleKitchenStaff Role = "KitchenStaff"
)

var roles = []Role{RoleAdmin, RoleManager, RoleEmployee, RoleCustomer, RoleKitchenStaff}

// ParseRole converts a textual role, case-insensitively, into a Role.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range roles {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// IsStaffSupervisor reports whether the role may act on other users' records.
func (r Role) IsStaffSupervisor() bool {
	return r == RoleAdmin || r == RoleManager
}

func (r Role) String() string { return string(r) }
