package auth

import (
	"sort"
	"strings"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular platform member (read-only access)
	RoleUser UserRole = "USER"
	// RoleAdmin administers users and quizzes
	RoleAdmin UserRole = "ADMIN"
)

// Permission is a single scope token granted by a role
type Permission = string

const (
	PermissionUserRead   Permission = "user:read"
	PermissionUserWrite  Permission = "user:write"
	PermissionUserDelete Permission = "user:delete"

	PermissionQuizRead   Permission = "quiz:read"
	PermissionQuizWrite  Permission = "quiz:write"
	PermissionQuizDelete Permission = "quiz:delete"

	PermissionAdminRead   Permission = "admin:read"
	PermissionAdminWrite  Permission = "admin:write"
	PermissionAdminDelete Permission = "admin:delete"
)

// rolePermissions is the static role -> permission table consulted at
// token-issuance time. Unknown roles get no permissions.
var rolePermissions = map[UserRole][]Permission{
	RoleUser: {
		PermissionUserRead,
		PermissionQuizRead,
	},
	RoleAdmin: {
		PermissionUserRead,
		PermissionUserWrite,
		PermissionUserDelete,
		PermissionQuizRead,
		PermissionQuizWrite,
		PermissionQuizDelete,
		PermissionAdminRead,
		PermissionAdminWrite,
		PermissionAdminDelete,
	},
}

// PermissionsForRole returns the permission set for a role, sorted so the
// derived scope string is deterministic.
func PermissionsForRole(role UserRole) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}

	out := make([]Permission, len(perms))
	copy(out, perms)
	sort.Strings(out)
	return out
}

// ScopeForRole builds the space-separated scope claim for a role.
func ScopeForRole(role UserRole) string {
	return strings.Join(PermissionsForRole(role), " ")
}

// HasPermission checks the static table directly, without a token.
func HasPermission(role UserRole, permission Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(role UserRole) bool {
	_, ok := rolePermissions[role]
	return ok
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{RoleUser, RoleAdmin}
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(roleStr)))
	return role, IsValidRole(role)
}
