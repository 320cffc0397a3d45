// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package sec

import "fmt"

// # User Roles

// UserRole represents a marketplace capability granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "Admin"

	// Can publish and manage property listings
	RoleSeller UserRole = "Seller"

	// Default role for standard registered users
	RoleBuyer UserRole = "Buyer"
)

// DefaultRoles is the role set assigned to every freshly registered account.
func DefaultRoles() []UserRole {
	return []UserRole{RoleBuyer}
}

// IsValid reports whether the value is a known role.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	default:
		return false
	}
}

// # Role Sets

// HasRole reports whether the role set contains the target role.
// Admin implies every other role.
func HasRole(roles []UserRole, target UserRole) bool {
	for _, role := range roles {
		if role == target || role == RoleAdmin {
			return true
		}
	}
	return false
}

// RolesToStrings converts a role set into plain strings for storage drivers.
func RolesToStrings(roles []UserRole) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}

// RolesFromStrings converts stored strings back into a typed role set.
// Unknown values are preserved as-is; validation happens at write time.
func RolesFromStrings(values []string) []UserRole {
	out := make([]UserRole, len(values))
	for i, value := range values {
		out[i] = UserRole(value)
	}
	return out
}

// RolesFromStringsStrict converts client-supplied strings into a typed role
// set, rejecting values that are not known roles.
func RolesFromStringsStrict(values []string) ([]UserRole, error) {
	out := make([]UserRole, len(values))
	for i, value := range values {
		role := UserRole(value)
		if !role.IsValid() {
			return nil, fmt.Errorf("sec: unknown role %q", value)
		}
		out[i] = role
	}
	return out, nil
}
