package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizapp/go-auth"
)

func TestPermissionsForRole(t *testing.T) {
	t.Run("user role gets read-only permissions", func(t *testing.T) {
		perms := auth.PermissionsForRole(auth.RoleUser)
		assert.ElementsMatch(t, []string{"quiz:read", "user:read"}, perms)
	})

	t.Run("admin role gets the full permission set", func(t *testing.T) {
		perms := auth.PermissionsForRole(auth.RoleAdmin)
		assert.Len(t, perms, 9)
		assert.Contains(t, perms, auth.PermissionAdminDelete)
		assert.Contains(t, perms, auth.PermissionQuizWrite)
	})

	t.Run("unknown role gets nothing", func(t *testing.T) {
		assert.Empty(t, auth.PermissionsForRole("SUPERVISOR"))
		assert.Empty(t, auth.PermissionsForRole(""))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		perms := auth.PermissionsForRole(auth.RoleUser)
		perms[0] = "mutated"
		assert.NotContains(t, auth.PermissionsForRole(auth.RoleUser), "mutated")
	})

	t.Run("permissions are sorted", func(t *testing.T) {
		for _, role := range auth.GetAllRoles() {
			perms := auth.PermissionsForRole(role)
			assert.IsIncreasing(t, perms, "role %s", role)
		}
	})
}

func TestScopeForRole(t *testing.T) {
	t.Run("builds a space separated scope string", func(t *testing.T) {
		scope := auth.ScopeForRole(auth.RoleUser)
		assert.Equal(t, "quiz:read user:read", scope)
	})

	t.Run("scope is deterministic", func(t *testing.T) {
		first := auth.ScopeForRole(auth.RoleAdmin)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, auth.ScopeForRole(auth.RoleAdmin))
		}
	})

	t.Run("unknown role yields empty scope", func(t *testing.T) {
		assert.Empty(t, auth.ScopeForRole("SUPERVISOR"))
	})

	t.Run("scope fields match the permission list", func(t *testing.T) {
		scope := auth.ScopeForRole(auth.RoleAdmin)
		assert.Equal(t, auth.PermissionsForRole(auth.RoleAdmin), strings.Fields(scope))
	})
}

func TestHasPermission(t *testing.T) {
	assert.True(t, auth.HasPermission(auth.RoleUser, auth.PermissionQuizRead))
	assert.False(t, auth.HasPermission(auth.RoleUser, auth.PermissionQuizWrite))
	assert.True(t, auth.HasPermission(auth.RoleAdmin, auth.PermissionQuizWrite))
	assert.False(t, auth.HasPermission("SUPERVISOR", auth.PermissionQuizRead))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  auth.UserRole
		ok    bool
	}{
		{"USER", auth.RoleUser, true},
		{"user", auth.RoleUser, true},
		{" admin ", auth.RoleAdmin, true},
		{"ADMIN", auth.RoleAdmin, true},
		{"supervisor", "SUPERVISOR", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, ok := auth.ParseRole(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, role)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range auth.GetAllRoles() {
		assert.True(t, auth.IsValidRole(role))
	}
	assert.False(t, auth.IsValidRole("SUPERVISOR"))
}
