package services

import (
	"context"
	"errors"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"gorm.io/gorm"
)

// CourseService handles the course lifecycle: authoring, review and
// publication state
type CourseService struct {
	db *gorm.DB
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

// CreateCourseInput carries the authoring fields of a course
type CreateCourseInput struct {
	Title       string
	Description string
	Price       float64
	CategoryID  uint
	SubjectID   uint
}

// UpdateCourseInput carries the editable fields of a course. Nil pointers
// leave the current value untouched.
type UpdateCourseInput struct {
	Title       *string
	Description *string
	Price       *float64
	CategoryID  *uint
	SubjectID   *uint
}

// LessonInput carries lesson fields plus its full resource set
type LessonInput struct {
	Title     string
	Order     int
	Duration  int
	VideoURL  string
	IsFree    bool
	Resources []ResourceInput
}

// ResourceInput is one attachment within a lesson payload
type ResourceInput struct {
	Title string
	URL   string
	Type  string
}

// CourseFilter narrows a course listing. Equality filters combine with
// AND; Search matches title or description case-insensitively.
type CourseFilter struct {
	Status     string
	CategoryID uint
	SubjectID  uint
	TeacherID  uint
	Search     string
	Page       int
	Limit      int
}

// teacherProfile resolves the Teacher profile owned by a user
func (s *CourseService) teacherProfile(ctx context.Context, userID uint) (*model.Teacher, error) {
	var teacher model.Teacher
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Instructor profile not found")
		}
		return nil, err
	}
	return &teacher, nil
}

// ownedCourse loads a course and verifies the user's Teacher profile owns it
func (s *CourseService) ownedCourse(ctx context.Context, userID, courseID uint) (*model.Course, error) {
	teacher, err := s.teacherProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Course not found")
		}
		return nil, err
	}

	if course.TeacherID != teacher.ID {
		return nil, apperror.Forbidden("You do not own this course")
	}

	return &course, nil
}

// Create creates a course in DRAFT for the user's instructor profile
func (s *CourseService) Create(ctx context.Context, userID uint, in CreateCourseInput) (*model.Course, error) {
	teacher, err := s.teacherProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var subject model.AcademicSubject
	if err := s.db.WithContext(ctx).First(&subject, in.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Subject not found")
		}
		return nil, err
	}
	if subject.CategoryID != in.CategoryID {
		return nil, apperror.Validation("Subject does not belong to the selected category")
	}

	course := &model.Course{
		TeacherID:   teacher.ID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		SubjectID:   in.SubjectID,
		Status:      model.CourseDraft,
	}

	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, err
	}

	return course, nil
}

// Submit moves an owned course into the review queue. Allowed from DRAFT
// and REJECTED; the SUBMITTED log entry is written in the same transaction
// as the status change.
func (s *CourseService) Submit(ctx context.Context, userID, courseID uint) (*model.Course, error) {
	if _, err := s.ownedCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}

	// Status is re-read inside the transaction so a concurrent submit
	// cannot slip past the precondition
	var course model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&course, courseID).Error; err != nil {
			return err
		}
		if course.Status != model.CourseDraft && course.Status != model.CourseRejected {
			return apperror.InvalidState("Only draft or rejected courses can be submitted for review")
		}
		if err := tx.Model(&course).Update("status", model.CoursePending).Error; err != nil {
			return err
		}
		return tx.Create(&model.CourseLog{
			CourseID: course.ID,
			UserID:   userID,
			Action:   model.LogSubmitted,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	course.Status = model.CoursePending
	return &course, nil
}

// review applies an admin decision on a PENDING course. The PENDING check
// runs inside the transaction so concurrent decisions cannot both apply.
func (s *CourseService) review(ctx context.Context, adminID, courseID uint, status, action, comment string) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Course not found")
			}
			return err
		}
		if course.Status != model.CoursePending {
			return apperror.InvalidState("Course is not pending review")
		}

		updates := map[string]interface{}{
			"status":         status,
			"admin_comments": comment,
		}
		if err := tx.Model(&course).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&model.CourseLog{
			CourseID: course.ID,
			UserID:   adminID,
			Action:   action,
			Comment:  comment,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	course.Status = status
	course.AdminComments = comment
	return &course, nil
}

// Approve publishes a pending course
func (s *CourseService) Approve(ctx context.Context, adminID, courseID uint, comment string) (*model.Course, error) {
	return s.review(ctx, adminID, courseID, model.CourseApproved, model.LogApproved, comment)
}

// Reject sends a pending course back to its author with a reason
func (s *CourseService) Reject(ctx context.Context, adminID, courseID uint, reason string) (*model.Course, error) {
	if reason == "" {
		return nil, apperror.Validation("Rejection reason is required")
	}
	return s.review(ctx, adminID, courseID, model.CourseRejected, model.LogRejected, reason)
}

// Update edits course fields. When the author edits a course that was
// already decided (APPROVED or REJECTED), the course silently returns to
// PENDING for re-review; no log entry is written for this transition.
// Admin edits never change status.
func (s *CourseService) Update(ctx context.Context, userID uint, actorRole string, courseID uint, in UpdateCourseInput) (*model.Course, error) {
	var course *model.Course
	admin := rbac.IsAdmin(actorRole)

	if admin {
		var c model.Course
		if err := s.db.WithContext(ctx).First(&c, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("Course not found")
			}
			return nil, err
		}
		course = &c
	} else {
		var err error
		course, err = s.ownedCourse(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
	}

	if in.Title != nil {
		course.Title = *in.Title
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Price != nil {
		course.Price = *in.Price
	}
	if in.CategoryID != nil {
		course.CategoryID = *in.CategoryID
	}
	if in.SubjectID != nil {
		course.SubjectID = *in.SubjectID
	}
	if in.CategoryID != nil || in.SubjectID != nil {
		var subject model.AcademicSubject
		if err := s.db.WithContext(ctx).First(&subject, course.SubjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("Subject not found")
			}
			return nil, err
		}
		if subject.CategoryID != course.CategoryID {
			return nil, apperror.Validation("Subject does not belong to the selected category")
		}
	}

	if !admin && (course.Status == model.CourseApproved || course.Status == model.CourseRejected) {
		course.Status = model.CoursePending
	}

	if err := s.db.WithContext(ctx).Save(course).Error; err != nil {
		return nil, err
	}

	return course, nil
}

// UpdateThumbnail stores the uploaded thumbnail URL on an owned course.
// Thumbnail swaps are cosmetic and never trigger re-review.
func (s *CourseService) UpdateThumbnail(ctx context.Context, userID, courseID uint, url string) (*model.Course, error) {
	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(course).Update("thumbnail", url).Error; err != nil {
		return nil, err
	}

	course.Thumbnail = url
	return course, nil
}

// ToggleStatus flips a course between APPROVED and DISABLED. The author
// may toggle only their own approved/disabled courses; admins may also
// force-approve a course in any other state. No log entry is written.
func (s *CourseService) ToggleStatus(ctx context.Context, userID uint, actorRole string, courseID uint) (*model.Course, error) {
	var course *model.Course
	admin := rbac.IsAdmin(actorRole)

	if admin {
		var c model.Course
		if err := s.db.WithContext(ctx).First(&c, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("Course not found")
			}
			return nil, err
		}
		course = &c
	} else {
		var err error
		course, err = s.ownedCourse(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
	}

	var next string
	switch {
	case course.Status == model.CourseApproved:
		next = model.CourseDisabled
	case course.Status == model.CourseDisabled:
		next = model.CourseApproved
	case admin:
		// Admins may force-enable regardless of current state
		next = model.CourseApproved
	default:
		return nil, apperror.InvalidState("Only approved or disabled courses can be toggled")
	}

	if err := s.db.WithContext(ctx).Model(course).Update("status", next).Error; err != nil {
		return nil, err
	}

	course.Status = next
	return course, nil
}

// deleteCourseTx removes a course and all owned rows. The cascade is
// explicit so it behaves the same on every database backend.
func deleteCourseTx(tx *gorm.DB, courseID uint) error {
	var unitIDs []uint
	if err := tx.Model(&model.Unit{}).Where("course_id = ?", courseID).Pluck("id", &unitIDs).Error; err != nil {
		return err
	}

	if len(unitIDs) > 0 {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).Where("unit_id IN ?", unitIDs).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.Resource{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", lessonIDs).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("id IN ?", unitIDs).Delete(&model.Unit{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("course_id = ?", courseID).Delete(&model.CourseLog{}).Error; err != nil {
		return err
	}

	return tx.Delete(&model.Course{}, courseID).Error
}

// Delete removes a course with its full content tree. Authors may delete
// only courses that never went live (DRAFT or REJECTED); admins may delete
// any course.
func (s *CourseService) Delete(ctx context.Context, userID uint, actorRole string, courseID uint) error {
	if rbac.IsAdmin(actorRole) {
		var course model.Course
		if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Course not found")
			}
			return err
		}
	} else {
		course, err := s.ownedCourse(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if course.Status != model.CourseDraft && course.Status != model.CourseRejected {
			return apperror.InvalidState("Only draft or rejected courses can be deleted")
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCourseTx(tx, courseID)
	})
}

// BulkDelete removes a set of courses, or every course when deleteAll is
// set. Deleting everything is reserved for SUPER_ADMIN. Missing IDs are
// skipped silently. Returns the number of courses removed.
func (s *CourseService) BulkDelete(ctx context.Context, actorRole string, courseIDs []uint, deleteAll bool) (int, error) {
	if !rbac.IsAdmin(actorRole) {
		return 0, apperror.Forbidden("Insufficient permissions")
	}
	if deleteAll && !rbac.IsSuperAdmin(actorRole) {
		return 0, apperror.Forbidden("Deleting all courses requires super admin access")
	}

	var ids []uint
	if deleteAll {
		if err := s.db.WithContext(ctx).Model(&model.Course{}).Pluck("id", &ids).Error; err != nil {
			return 0, err
		}
	} else {
		if err := s.db.WithContext(ctx).Model(&model.Course{}).Where("id IN ?", courseIDs).Pluck("id", &ids).Error; err != nil {
			return 0, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := deleteCourseTx(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(ids), nil
}

// AddUnit appends a section to an owned course
func (s *CourseService) AddUnit(ctx context.Context, userID, courseID uint, title string, order int) (*model.Unit, error) {
	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	unit := &model.Unit{
		CourseID: course.ID,
		Title:    title,
		Order:    order,
	}

	if err := s.db.WithContext(ctx).Create(unit).Error; err != nil {
		return nil, err
	}

	return unit, nil
}

// inferLessonType derives the lesson type from its content: a video URL
// makes it VIDEO, otherwise attached resources make it DOCUMENT, otherwise
// it defaults to VIDEO.
func inferLessonType(videoURL string, resources []ResourceInput) string {
	if videoURL != "" {
		return model.LessonVideo
	}
	if len(resources) > 0 {
		return model.LessonDocument
	}
	return model.LessonVideo
}

// ownedUnit loads a unit and verifies the user owns its course
func (s *CourseService) ownedUnit(ctx context.Context, userID, unitID uint) (*model.Unit, error) {
	var unit model.Unit
	if err := s.db.WithContext(ctx).First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Unit not found")
		}
		return nil, err
	}

	if _, err := s.ownedCourse(ctx, userID, unit.CourseID); err != nil {
		return nil, err
	}

	return &unit, nil
}

// AddLesson creates a lesson with its resources in one transaction
func (s *CourseService) AddLesson(ctx context.Context, userID, unitID uint, in LessonInput) (*model.Lesson, error) {
	unit, err := s.ownedUnit(ctx, userID, unitID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		UnitID:   unit.ID,
		Title:    in.Title,
		Order:    in.Order,
		Type:     inferLessonType(in.VideoURL, in.Resources),
		Duration: in.Duration,
		VideoURL: in.VideoURL,
		IsFree:   in.IsFree,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}
		for _, r := range in.Resources {
			resource := model.Resource{
				LessonID: lesson.ID,
				Title:    r.Title,
				URL:      r.URL,
				Type:     r.Type,
			}
			if err := tx.Create(&resource).Error; err != nil {
				return err
			}
			lesson.Resources = append(lesson.Resources, resource)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lesson, nil
}

// UpdateLesson rewrites a lesson. The resource set in the payload replaces
// the stored set wholesale (delete then insert) in one transaction.
func (s *CourseService) UpdateLesson(ctx context.Context, userID, lessonID uint, in LessonInput) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Lesson not found")
		}
		return nil, err
	}

	if _, err := s.ownedUnit(ctx, userID, lesson.UnitID); err != nil {
		return nil, err
	}

	lesson.Title = in.Title
	lesson.Order = in.Order
	lesson.Duration = in.Duration
	lesson.VideoURL = in.VideoURL
	lesson.IsFree = in.IsFree
	lesson.Type = inferLessonType(in.VideoURL, in.Resources)
	lesson.Resources = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&lesson).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&model.Resource{}).Error; err != nil {
			return err
		}
		for _, r := range in.Resources {
			resource := model.Resource{
				LessonID: lesson.ID,
				Title:    r.Title,
				URL:      r.URL,
				Type:     r.Type,
			}
			if err := tx.Create(&resource).Error; err != nil {
				return err
			}
			lesson.Resources = append(lesson.Resources, resource)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &lesson, nil
}

// ListCourses returns a filtered page of courses with total count. Count
// and page run in one transaction so the total matches the rows returned.
func (s *CourseService) ListCourses(ctx context.Context, filter CourseFilter) ([]model.Course, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	var total int64
	var courses []model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&model.Course{})
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.CategoryID > 0 {
			query = query.Where("category_id = ?", filter.CategoryID)
		}
		if filter.SubjectID > 0 {
			query = query.Where("subject_id = ?", filter.SubjectID)
		}
		if filter.TeacherID > 0 {
			query = query.Where("teacher_id = ?", filter.TeacherID)
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
		}

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		return query.
			Preload("Teacher.User").
			Preload("Category").
			Preload("Subject").
			Order("created_at DESC").
			Offset((filter.Page - 1) * filter.Limit).
			Limit(filter.Limit).
			Find(&courses).
			Error
	})
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// TeacherCourses returns every course owned by the user's instructor
// profile, newest first
func (s *CourseService) TeacherCourses(ctx context.Context, userID uint) ([]model.Course, error) {
	teacher, err := s.teacherProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var courses []model.Course
	err = s.db.WithContext(ctx).
		Preload("Category").
		Preload("Subject").
		Where("teacher_id = ?", teacher.ID).
		Order("created_at DESC").
		Find(&courses).
		Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}

// Details returns a course with its full content tree in display order
func (s *CourseService) Details(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).
		Preload("Teacher.User").
		Preload("Category").
		Preload("Subject").
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.sort_order ASC")
		}).
		Preload("Units.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.sort_order ASC")
		}).
		Preload("Units.Lessons.Resources").
		First(&course, courseID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Course not found")
		}
		return nil, err
	}

	return &course, nil
}

// Logs returns the workflow history of a course, newest first
func (s *CourseService) Logs(ctx context.Context, courseID uint) ([]model.CourseLog, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperror.NotFound("Course not found")
	}

	var logs []model.CourseLog
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&logs).
		Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
