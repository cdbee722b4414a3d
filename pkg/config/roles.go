package config

import "strings"

// DefaultAuthorizedRoles are the roles allowed to call the user endpoints
// when AUTHORIZED_ROLES is not set.
var DefaultAuthorizedRoles = []string{"moderator", "admin"}

// ParseAuthorizedRoles parses a comma-separated list of role names.
// Returns normalized, non-empty, de-duplicated role names.
// Falls back to DefaultAuthorizedRoles when nothing usable is given.
func ParseAuthorizedRoles(envValue string) []string {
	roles := make([]string, 0, len(DefaultAuthorizedRoles))
	seen := make(map[string]struct{})

	for _, part := range ParseList(envValue) {
		role := NormalizeRole(part)
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}

	if len(roles) == 0 {
		return append([]string(nil), DefaultAuthorizedRoles...)
	}
	return roles
}

// NormalizeRole lowercases a role name and strips a leading "ROLE_" prefix,
// so "ROLE_ADMIN", "admin" and "Admin" compare equal.
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if len(role) >= 5 && strings.EqualFold(role[:5], "ROLE_") {
		role = role[5:]
	}
	return strings.ToLower(role)
}

// IsAuthorizedRole checks if the given role is in the list of authorized roles
func IsAuthorizedRole(role string, authorized []string) bool {
	normalized := NormalizeRole(role)
	if normalized == "" {
		return false
	}
	for _, a := range authorized {
		if NormalizeRole(a) == normalized {
			return true
		}
	}
	return false
}

// HasAnyRole returns true if any role in userRoles matches any authorized role
func HasAnyRole(userRoles []string, authorized []string) bool {
	for _, userRole := range userRoles {
		if IsAuthorizedRole(userRole, authorized) {
			return true
		}
	}
	return false
}
