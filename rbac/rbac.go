package rbac

import (
	"strings"
)

// Role vocabulary. Authorization checks reference these symbolically;
// comparisons are case-insensitive so tokens minted before the casing was
// unified keep working.
const (
	RoleStudent    = "STUDENT"
	RoleTeacher    = "TEACHER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Permission vocabulary
const (
	PermManageUsers    = "MANAGE_USERS"
	PermManageRoles    = "MANAGE_ROLES"
	PermApproveStaff   = "APPROVE_STAFF"
	PermManageAcademic = "MANAGE_ACADEMIC"
	PermManageCourses  = "MANAGE_COURSES"
	PermApproveCourse  = "APPROVE_COURSE"
	PermViewReports    = "VIEW_REPORTS"
	PermCreateCourse   = "CREATE_COURSE"
	PermViewCourse     = "VIEW_COURSE"
	PermEnrollCourse   = "ENROLL_COURSE"
)

// AllRoles lists every role the system seeds
var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin, RoleSuperAdmin}

// AllPermissions lists every permission the system seeds
var AllPermissions = []string{
	PermManageUsers,
	PermManageRoles,
	PermApproveStaff,
	PermManageAcademic,
	PermManageCourses,
	PermApproveCourse,
	PermViewReports,
	PermCreateCourse,
	PermViewCourse,
	PermEnrollCourse,
}

// DefaultGrants maps each role to its seeded permission set. The gate
// itself never consults permissions transitively: SUPER_ADMIN appears
// explicitly in every required set where it may act, no hierarchy is
// derived.
var DefaultGrants = map[string][]string{
	RoleStudent: {PermViewCourse, PermEnrollCourse},
	RoleTeacher: {PermCreateCourse, PermManageCourses, PermViewCourse},
	RoleAdmin: {
		PermManageUsers, PermApproveStaff, PermManageAcademic,
		PermManageCourses, PermApproveCourse, PermViewReports, PermViewCourse,
	},
	RoleSuperAdmin: AllPermissions,
}

// AdminRoles are the roles treated as administrators throughout the API
var AdminRoles = []string{RoleAdmin, RoleSuperAdmin}

// Normalize canonicalizes a role name for comparison
func Normalize(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// Allowed reports whether actorRole is a member of the required set.
// An empty required set denies everything.
func Allowed(actorRole string, required ...string) bool {
	actor := Normalize(actorRole)
	if actor == "" {
		return false
	}
	for _, r := range required {
		if actor == Normalize(r) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role is an administrator role
func IsAdmin(role string) bool {
	return Allowed(role, AdminRoles...)
}

// IsSuperAdmin reports whether the role is the highest administrative tier
func IsSuperAdmin(role string) bool {
	return Allowed(role, RoleSuperAdmin)
}

// IsKnown reports whether the role is part of the fixed vocabulary
func IsKnown(role string) bool {
	return Allowed(role, AllRoles...)
}
