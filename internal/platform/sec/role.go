// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package sec

// # User Roles

// UserRole represents the marketplace tier granted to a principal.
type UserRole string

const (
	// The configured administrator. Never read from storage.
	RoleOwner UserRole = "Owner"

	// Verified sellers who completed the NID upgrade.
	RolePremium UserRole = "Premium"

	// Default role for every registered user
	RoleNormal UserRole = "Normal"
)

// ParseRole maps a stored role string onto a known [UserRole].
// Unknown or empty values report false so callers can apply their own default.
func ParseRole(raw string) (UserRole, bool) {
	switch UserRole(raw) {
	case RoleOwner, RolePremium, RoleNormal:
		return UserRole(raw), true
	default:
		return "", false
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// IsValid reports whether r is one of the three marketplace roles.
func (r UserRole) IsValid() bool {
	return r.level() > 0
}

func (r UserRole) level() int {
	switch r {
	case RoleOwner:
		return 30
	case RolePremium:
		return 20
	case RoleNormal:
		return 10
	default:
		return 0
	}
}
