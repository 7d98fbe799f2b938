package services

import (
	"testing"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)

	_, err := svc.CreateCategory(testCtx(), "Programming")
	require.NoError(t, err)

	_, err = svc.CreateCategory(testCtx(), "Programming")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUpdateCategoryChecksNameCollision(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)

	first, err := svc.CreateCategory(testCtx(), "Programming")
	require.NoError(t, err)
	_, err = svc.CreateCategory(testCtx(), "Design")
	require.NoError(t, err)

	_, err = svc.UpdateCategory(testCtx(), first.ID, "Design")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// Saving under its own name is not a collision
	renamed, err := svc.UpdateCategory(testCtx(), first.ID, "Programming")
	require.NoError(t, err)
	assert.Equal(t, "Programming", renamed.Name)
}

func TestDeleteCategoryRemovesSubjects(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	category, subject := createTaxonomy(t, db, "Programming", "Go")

	require.NoError(t, svc.DeleteCategory(testCtx(), category.ID))

	var n int64
	require.NoError(t, db.Model(&model.AcademicSubject{}).Where("id = ?", subject.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDeleteCategoryMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)

	err := svc.DeleteCategory(testCtx(), 9999)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestBulkDeleteCategoriesSkipsMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	category, _ := createTaxonomy(t, db, "Programming", "Go")

	removed, err := svc.BulkDeleteCategories(testCtx(), []uint{category.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// A batch of only missing IDs is a no-op, not an error
	removed, err = svc.BulkDeleteCategories(testCtx(), []uint{9999})
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCreateSubjectScopedUniqueness(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	category, _ := createTaxonomy(t, db, "Programming", "Go")
	other, err := svc.CreateCategory(testCtx(), "Design")
	require.NoError(t, err)

	_, err = svc.CreateSubject(testCtx(), category.ID, "Go")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// Same name under a different category is fine
	_, err = svc.CreateSubject(testCtx(), other.ID, "Go")
	require.NoError(t, err)
}

func TestDeleteSubjectMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)

	err := svc.DeleteSubject(testCtx(), 9999)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRequestItemRequiresInstructorProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)

	_, err := svc.RequestItem(testCtx(), user.ID, model.RequestCategory, "Data Science", nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSubjectRequestRequiresParentCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user, _ := createInstructor(t, db, "teacher@example.com")

	_, err := svc.RequestItem(testCtx(), user.ID, model.RequestSubject, "Rust", nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	missing := uint(9999)
	_, err = svc.RequestItem(testCtx(), user.ID, model.RequestSubject, "Rust", &missing)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCategoryRequestDropsParent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user, _ := createInstructor(t, db, "teacher@example.com")
	category, _ := createTaxonomy(t, db, "Programming", "Go")

	// A stray parent on a CATEGORY request is ignored
	request, err := svc.RequestItem(testCtx(), user.ID, model.RequestCategory, "Data Science", &category.ID)
	require.NoError(t, err)
	assert.Nil(t, request.CategoryID)
	assert.Equal(t, model.RequestPending, request.Status)
}

func TestResolveApproveMaterializesCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user, _ := createInstructor(t, db, "teacher@example.com")

	request, err := svc.RequestItem(testCtx(), user.ID, model.RequestCategory, "Data Science", nil)
	require.NoError(t, err)

	resolved, err := svc.ResolveRequest(testCtx(), request.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, resolved.Status)

	var category model.AcademicCategory
	require.NoError(t, db.Where("name = ?", "Data Science").First(&category).Error)
}

func TestResolveApproveMaterializesSubject(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user, _ := createInstructor(t, db, "teacher@example.com")
	category, _ := createTaxonomy(t, db, "Programming", "Go")

	request, err := svc.RequestItem(testCtx(), user.ID, model.RequestSubject, "Rust", &category.ID)
	require.NoError(t, err)

	_, err = svc.ResolveRequest(testCtx(), request.ID, true, "")
	require.NoError(t, err)

	var subject model.AcademicSubject
	require.NoError(t, db.Where("category_id = ? AND name = ?", category.ID, "Rust").First(&subject).Error)
}

func TestResolveDuplicateLeavesRequestPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user, _ := createInstructor(t, db, "teacher@example.com")

	request, err := svc.RequestItem(testCtx(), user.ID, model.RequestCategory, "Data Science", nil)
	require.NoError(t, err)

	// The name gets taken before the request is decided
	_, err = svc.CreateCategory(testCtx(), "Data Science")
	require.NoError(t, err)

	_, err = svc.ResolveRequest(testCtx(), request.ID, true, "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// The transaction rolled back; the request can still be rejected
	var stored model.AcademicRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	assert.Equal(t, model.RequestPending, stored.Status)

	rejected, err := svc.ResolveRequest(testCtx(), request.ID, false, "Already exists")
	require.NoError(t, err)
	assert.Equal(t, model.RequestRejected, rejected.Status)
	assert.Equal(t, "Already exists", rejected.Reason)
}

func TestResolveDecidesExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user, _ := createInstructor(t, db, "teacher@example.com")

	request, err := svc.RequestItem(testCtx(), user.ID, model.RequestCategory, "Data Science", nil)
	require.NoError(t, err)

	_, err = svc.ResolveRequest(testCtx(), request.ID, false, "not now")
	require.NoError(t, err)

	_, err = svc.ResolveRequest(testCtx(), request.ID, true, "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestListRequestsFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAcademicService(db)
	user, _ := createInstructor(t, db, "teacher@example.com")

	first, err := svc.RequestItem(testCtx(), user.ID, model.RequestCategory, "Data Science", nil)
	require.NoError(t, err)
	_, err = svc.RequestItem(testCtx(), user.ID, model.RequestCategory, "Philosophy", nil)
	require.NoError(t, err)

	_, err = svc.ResolveRequest(testCtx(), first.ID, false, "no")
	require.NoError(t, err)

	pending, total, err := svc.ListRequests(testCtx(), model.RequestPending, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, "Philosophy", pending[0].Name)
}
