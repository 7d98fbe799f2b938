package services

import (
	"testing"

	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentProfileNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStudentService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)

	_, err := svc.Profile(testCtx(), user.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestStudentUpsertCreatesThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStudentService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)

	created, err := svc.UpsertProfile(testCtx(), user.ID, StudentProfileInput{
		Bio:       "First year, mostly lurking",
		Interests: "Databases",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.UserID)

	updated, err := svc.UpsertProfile(testCtx(), user.ID, StudentProfileInput{
		Bio:       "Second year now",
		Interests: "Databases, Compilers",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Second year now", updated.Bio)
	assert.Equal(t, "Databases, Compilers", updated.Interests)

	profile, err := svc.Profile(testCtx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second year now", profile.Bio)
	assert.Equal(t, user.Email, profile.User.Email)
}

func TestListStudentsWithoutApplications(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStudentService(db)
	instructorSvc := NewInstructorService(db)

	lurker := createUser(t, db, "lurker@example.com", rbac.RoleStudent, true)
	applicant := createUser(t, db, "applicant@example.com", rbac.RoleStudent, true)

	_, err := svc.UpsertProfile(testCtx(), lurker.ID, StudentProfileInput{Bio: "just here to learn"})
	require.NoError(t, err)
	_, err = svc.UpsertProfile(testCtx(), applicant.ID, StudentProfileInput{Bio: "aspiring instructor"})
	require.NoError(t, err)

	_, err = instructorSvc.Apply(testCtx(), applicant.ID, ApplicationInput{
		Bio:        "let me teach databases",
		Expertise:  "Databases",
		Experience: "3 years",
	})
	require.NoError(t, err)

	all, total, err := svc.ListStudents(testCtx(), false, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	quiet, total, err := svc.ListStudents(testCtx(), true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, quiet, 1)
	assert.Equal(t, lurker.ID, quiet[0].UserID)
}
