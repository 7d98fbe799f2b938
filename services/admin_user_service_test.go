package services

import (
	"testing"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func tokenVersion(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()

	var user model.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.TokenVersion
}

func TestToggleActiveDeactivationKillsSessions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)
	versionBefore := tokenVersion(t, db, user.ID)

	toggled, err := svc.ToggleActive(testCtx(), user.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.Equal(t, versionBefore+1, tokenVersion(t, db, user.ID))

	// Reactivation does not bump the version again
	toggled, err = svc.ToggleActive(testCtx(), user.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
	assert.Equal(t, versionBefore+1, tokenVersion(t, db, user.ID))
}

func TestChangeRoleBumpsTokenVersion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)
	versionBefore := tokenVersion(t, db, user.ID)

	changed, err := svc.ChangeRole(testCtx(), user.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleAdmin, changed.Role.Name)
	assert.Equal(t, versionBefore+1, tokenVersion(t, db, user.ID))
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)

	_, err := svc.ChangeRole(testCtx(), user.ID, "OVERLORD")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDeleteUserSoftDeletes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)

	require.NoError(t, svc.DeleteUser(testCtx(), user.ID))

	// Gone from normal queries, still present unscoped
	_, err := svc.GetUser(testCtx(), user.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	var n int64
	require.NoError(t, db.Unscoped().Model(&model.User{}).Where("id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	err = svc.DeleteUser(testCtx(), user.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListUsersFiltersByRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	createUser(t, db, "a@example.com", rbac.RoleStudent, true)
	createUser(t, db, "b@example.com", rbac.RoleTeacher, true)
	createUser(t, db, "c@example.com", rbac.RoleTeacher, true)

	teachers, total, err := svc.ListUsers(testCtx(), UserFilter{Role: "teacher"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, teachers, 2)
}

func TestListRolesCarriesPermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)

	roles, err := svc.ListRoles(testCtx())
	require.NoError(t, err)
	require.Len(t, roles, len(rbac.AllRoles))

	byName := make(map[string]model.Role, len(roles))
	for _, r := range roles {
		byName[r.Name] = r
	}
	assert.Len(t, byName[rbac.RoleSuperAdmin].Permissions, len(rbac.AllPermissions))
	assert.NotEmpty(t, byName[rbac.RoleStudent].Permissions)
}
