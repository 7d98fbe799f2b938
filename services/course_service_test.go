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

// newCourse creates an instructor, taxonomy and a draft course
func newCourse(t *testing.T, db *gorm.DB, svc *CourseService) (*model.User, *model.Course) {
	t.Helper()

	user, _ := createInstructor(t, db, "owner@example.com")
	category, subject := createTaxonomy(t, db, "Computer Science", "Databases")

	course, err := svc.Create(testCtx(), user.ID, CreateCourseInput{
		Title:      "Database Internals",
		Price:      49.99,
		CategoryID: category.ID,
		SubjectID:  subject.ID,
	})
	require.NoError(t, err)
	require.Equal(t, model.CourseDraft, course.Status)
	return user, course
}

func logCount(t *testing.T, db *gorm.DB, courseID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&model.CourseLog{}).Where("course_id = ?", courseID).Count(&n).Error)
	return n
}

func TestCreateRequiresInstructorProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user := createUser(t, db, "student@example.com", rbac.RoleStudent, true)
	category, subject := createTaxonomy(t, db, "Math", "Calculus")

	_, err := svc.Create(testCtx(), user.ID, CreateCourseInput{
		Title:      "Calculus I",
		CategoryID: category.ID,
		SubjectID:  subject.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateRejectsSubjectOutsideCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, _ := createInstructor(t, db, "owner@example.com")
	_, subject := createTaxonomy(t, db, "Math", "Calculus")
	other := &model.AcademicCategory{Name: "Business"}
	require.NoError(t, db.Create(other).Error)

	_, err := svc.Create(testCtx(), user.ID, CreateCourseInput{
		Title:      "Calculus for Business",
		CategoryID: other.ID,
		SubjectID:  subject.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSubmitFromDraftWritesLog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, course := newCourse(t, db, svc)

	submitted, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CoursePending, submitted.Status)

	var log model.CourseLog
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&log).Error)
	assert.Equal(t, model.LogSubmitted, log.Action)
	assert.Equal(t, user.ID, log.UserID)
}

func TestSubmitGating(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, course := newCourse(t, db, svc)

	_, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)

	// PENDING courses cannot be submitted again
	_, err = svc.Submit(testCtx(), user.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestRejectThenResubmit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	user, course := newCourse(t, db, svc)

	_, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(testCtx(), admin.ID, course.ID, "Too thin")
	require.NoError(t, err)
	assert.Equal(t, model.CourseRejected, rejected.Status)
	assert.Equal(t, "Too thin", rejected.AdminComments)

	resubmitted, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CoursePending, resubmitted.Status)

	// SUBMITTED, REJECTED, SUBMITTED
	assert.EqualValues(t, 3, logCount(t, db, course.ID))
}

func TestApproveRequiresPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	_, course := newCourse(t, db, svc)

	_, err := svc.Approve(testCtx(), admin.ID, course.ID, "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestRejectRequiresReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	user, course := newCourse(t, db, svc)

	_, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Reject(testCtx(), admin.ID, course.ID, "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestOwnerEditOfDecidedCourseForcesReReview(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	user, course := newCourse(t, db, svc)

	_, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.Approve(testCtx(), admin.ID, course.ID, "looks good")
	require.NoError(t, err)
	logsBefore := logCount(t, db, course.ID)

	title := "Database Internals, Second Edition"
	updated, err := svc.Update(testCtx(), user.ID, rbac.RoleTeacher, course.ID, UpdateCourseInput{Title: &title})
	require.NoError(t, err)

	// Content change on a live course goes back to review, silently
	assert.Equal(t, model.CoursePending, updated.Status)
	assert.Equal(t, logsBefore, logCount(t, db, course.ID))
}

func TestAdminEditKeepsStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	user, course := newCourse(t, db, svc)

	_, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.Approve(testCtx(), admin.ID, course.ID, "")
	require.NoError(t, err)

	title := "Database Internals (curated)"
	updated, err := svc.Update(testCtx(), admin.ID, rbac.RoleAdmin, course.ID, UpdateCourseInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, model.CourseApproved, updated.Status)
	assert.Equal(t, title, updated.Title)
}

func TestDraftEditStaysDraft(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, course := newCourse(t, db, svc)

	title := "Renamed Draft"
	updated, err := svc.Update(testCtx(), user.ID, rbac.RoleTeacher, course.ID, UpdateCourseInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, model.CourseDraft, updated.Status)
}

func TestToggleIsInverse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	user, course := newCourse(t, db, svc)

	_, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.Approve(testCtx(), admin.ID, course.ID, "")
	require.NoError(t, err)
	logsBefore := logCount(t, db, course.ID)

	disabled, err := svc.ToggleStatus(testCtx(), user.ID, rbac.RoleTeacher, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseDisabled, disabled.Status)

	enabled, err := svc.ToggleStatus(testCtx(), user.ID, rbac.RoleTeacher, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseApproved, enabled.Status)

	// Toggling never writes log entries
	assert.Equal(t, logsBefore, logCount(t, db, course.ID))
}

func TestToggleGatingForOwnerAndAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	user, course := newCourse(t, db, svc)

	// Owner cannot toggle a draft
	_, err := svc.ToggleStatus(testCtx(), user.ID, rbac.RoleTeacher, course.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	// Admin may force-enable from any state
	forced, err := svc.ToggleStatus(testCtx(), admin.ID, rbac.RoleAdmin, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CourseApproved, forced.Status)
}

func TestDeleteCascadesContentTree(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, course := newCourse(t, db, svc)

	unit, err := svc.AddUnit(testCtx(), user.ID, course.ID, "Storage Engines", 1)
	require.NoError(t, err)

	_, err = svc.AddLesson(testCtx(), user.ID, unit.ID, LessonInput{
		Title: "B-Trees",
		Order: 1,
		Resources: []ResourceInput{
			{Title: "Slides", URL: "https://cdn.example.com/btrees.pdf", Type: "pdf"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)

	// Back out of review so the owner can delete
	adminUser := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	_, err = svc.Reject(testCtx(), adminUser.ID, course.ID, "redo")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx(), user.ID, rbac.RoleTeacher, course.ID))

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"courses", &model.Course{}},
		{"units", &model.Unit{}},
		{"lessons", &model.Lesson{}},
		{"resources", &model.Resource{}},
		{"course_logs", &model.CourseLog{}},
	} {
		var n int64
		require.NoError(t, db.Model(probe.model).Count(&n).Error)
		assert.Zero(t, n, "expected no rows left in %s", probe.name)
	}
}

func TestOwnerDeleteGatedByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, course := newCourse(t, db, svc)

	_, err := svc.Submit(testCtx(), user.ID, course.ID)
	require.NoError(t, err)

	err = svc.Delete(testCtx(), user.ID, rbac.RoleTeacher, course.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	// Admin may delete regardless of status
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	require.NoError(t, svc.Delete(testCtx(), admin.ID, rbac.RoleAdmin, course.ID))
}

func TestBulkDeleteAllRequiresSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	_, course := newCourse(t, db, svc)

	_, err := svc.BulkDelete(testCtx(), rbac.RoleAdmin, nil, true)
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	removed, err := svc.BulkDelete(testCtx(), rbac.RoleSuperAdmin, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var n int64
	require.NoError(t, db.Model(&model.Course{}).Count(&n).Error)
	assert.Zero(t, n)
	_ = course
}

func TestBulkDeleteSkipsMissingIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	_, course := newCourse(t, db, svc)

	removed, err := svc.BulkDelete(testCtx(), rbac.RoleAdmin, []uint{course.ID, 9999}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestLessonTypeInference(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, course := newCourse(t, db, svc)
	unit, err := svc.AddUnit(testCtx(), user.ID, course.ID, "Intro", 1)
	require.NoError(t, err)

	video, err := svc.AddLesson(testCtx(), user.ID, unit.ID, LessonInput{
		Title:    "Welcome",
		VideoURL: "https://cdn.example.com/welcome.mp4",
		Resources: []ResourceInput{
			{Title: "Notes", URL: "https://cdn.example.com/notes.pdf"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.LessonVideo, video.Type)

	document, err := svc.AddLesson(testCtx(), user.ID, unit.ID, LessonInput{
		Title: "Reading List",
		Resources: []ResourceInput{
			{Title: "List", URL: "https://cdn.example.com/list.pdf"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.LessonDocument, document.Type)

	empty, err := svc.AddLesson(testCtx(), user.ID, unit.ID, LessonInput{Title: "Placeholder"})
	require.NoError(t, err)
	assert.Equal(t, model.LessonVideo, empty.Type)
}

func TestUpdateLessonReplacesResources(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	user, course := newCourse(t, db, svc)
	unit, err := svc.AddUnit(testCtx(), user.ID, course.ID, "Intro", 1)
	require.NoError(t, err)

	lesson, err := svc.AddLesson(testCtx(), user.ID, unit.ID, LessonInput{
		Title: "Reading",
		Resources: []ResourceInput{
			{Title: "Old A", URL: "https://cdn.example.com/a.pdf"},
			{Title: "Old B", URL: "https://cdn.example.com/b.pdf"},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateLesson(testCtx(), user.ID, lesson.ID, LessonInput{
		Title: "Reading v2",
		Resources: []ResourceInput{
			{Title: "New C", URL: "https://cdn.example.com/c.pdf"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Resources, 1)
	assert.Equal(t, "New C", updated.Resources[0].Title)

	// Old rows gone, replaced wholesale
	var stored []model.Resource
	require.NoError(t, db.Where("lesson_id = ?", lesson.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "New C", stored[0].Title)
}

func TestListCoursesFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	admin := createUser(t, db, "admin@example.com", rbac.RoleAdmin, true)
	user, _ := createInstructor(t, db, "owner@example.com")
	category, subject := createTaxonomy(t, db, "Computer Science", "Databases")

	var first *model.Course
	for i, title := range []string{"Indexes", "Transactions", "Replication"} {
		course, err := svc.Create(testCtx(), user.ID, CreateCourseInput{
			Title:      title,
			CategoryID: category.ID,
			SubjectID:  subject.ID,
		})
		require.NoError(t, err)
		if i == 0 {
			first = course
		}
	}

	_, err := svc.Submit(testCtx(), user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Approve(testCtx(), admin.ID, first.ID, "")
	require.NoError(t, err)

	approved, total, err := svc.ListCourses(testCtx(), CourseFilter{Status: model.CourseApproved})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, approved, 1)
	assert.Equal(t, "Indexes", approved[0].Title)

	// Total reflects the full result set, not the page
	page, total, err := svc.ListCourses(testCtx(), CourseFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)
}

func TestForeignOwnerCannotTouchCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCourseService(db)
	_, course := newCourse(t, db, svc)

	intruderUser, _ := createInstructor(t, db, "other@example.com")

	_, err := svc.Submit(testCtx(), intruderUser.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
