package services

import (
	"context"
	"errors"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"gorm.io/gorm"
)

// StudentService manages learner profiles
type StudentService struct {
	db *gorm.DB
}

// NewStudentService creates a new student service
func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// StudentProfileInput carries the editable learner profile fields
type StudentProfileInput struct {
	Bio       string
	Interests string
}

// Profile returns the learner profile for a user
func (s *StudentService) Profile(ctx context.Context, userID uint) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&student).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Student profile not found")
		}
		return nil, err
	}

	return &student, nil
}

// UpsertProfile creates or updates the learner profile for a user
func (s *StudentService) UpsertProfile(ctx context.Context, userID uint, in StudentProfileInput) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		student = model.Student{
			UserID:    userID,
			Bio:       in.Bio,
			Interests: in.Interests,
		}
		if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
			return nil, err
		}
		return &student, nil
	}
	if err != nil {
		return nil, err
	}

	student.Bio = in.Bio
	student.Interests = in.Interests
	if err := s.db.WithContext(ctx).Save(&student).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

// ListStudents returns a page of learner profiles with their users.
// withoutApplications narrows the roster to students who have never filed
// an instructor application.
func (s *StudentService) ListStudents(ctx context.Context, withoutApplications bool, page, limit int) ([]model.Student, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Student{})
	if withoutApplications {
		query = query.Where(
			"user_id NOT IN (?)",
			s.db.Model(&model.InstructorApplication{}).Select("user_id"),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []model.Student
	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&students).
		Error
	if err != nil {
		return nil, 0, err
	}

	return students, total, nil
}
