package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		actor    string
		required []string
		want     bool
	}{
		{"exact match", RoleAdmin, []string{RoleAdmin}, true},
		{"member of set", RoleTeacher, []string{RoleTeacher, RoleAdmin}, true},
		{"not in set", RoleStudent, []string{RoleTeacher, RoleAdmin}, false},
		{"case insensitive actor", "admin", []string{RoleAdmin}, true},
		{"case insensitive required", RoleAdmin, []string{"admin"}, true},
		{"whitespace trimmed", "  ADMIN  ", []string{RoleAdmin}, true},
		{"empty actor denied", "", []string{RoleAdmin}, false},
		{"empty required set denies", RoleSuperAdmin, nil, false},
		// No hierarchy: membership is literal
		{"admin is not super admin", RoleAdmin, []string{RoleSuperAdmin}, false},
		{"super admin not implied", RoleSuperAdmin, []string{RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.actor, tt.required...))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(RoleAdmin))
	assert.True(t, IsAdmin(RoleSuperAdmin))
	assert.True(t, IsAdmin("super_admin"))
	assert.False(t, IsAdmin(RoleTeacher))
	assert.False(t, IsAdmin(""))
}

func TestIsSuperAdmin(t *testing.T) {
	assert.True(t, IsSuperAdmin(RoleSuperAdmin))
	assert.False(t, IsSuperAdmin(RoleAdmin))
}

func TestIsKnown(t *testing.T) {
	for _, role := range AllRoles {
		assert.True(t, IsKnown(role), role)
	}
	assert.True(t, IsKnown("student"))
	assert.False(t, IsKnown("OVERLORD"))
	assert.False(t, IsKnown(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ADMIN", Normalize(" admin "))
	assert.Equal(t, "SUPER_ADMIN", Normalize("super_admin"))
	assert.Equal(t, "", Normalize("   "))
}

func TestDefaultGrantsCoverEveryRole(t *testing.T) {
	for _, role := range AllRoles {
		assert.NotEmpty(t, DefaultGrants[role], role)
	}
	assert.ElementsMatch(t, AllPermissions, DefaultGrants[RoleSuperAdmin])
}
