package services

import (
	"context"
	"errors"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"gorm.io/gorm"
)

// TeacherService manages instructor profiles
type TeacherService struct {
	db *gorm.DB
}

// NewTeacherService creates a new teacher service
func NewTeacherService(db *gorm.DB) *TeacherService {
	return &TeacherService{db: db}
}

// ProfileInput carries the editable instructor profile fields
type ProfileInput struct {
	Bio        string
	Expertise  string
	Experience string
}

// Profile returns the instructor profile for a user
func (s *TeacherService) Profile(ctx context.Context, userID uint) (*model.Teacher, error) {
	var teacher model.Teacher
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&teacher).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Instructor profile not found")
		}
		return nil, err
	}

	return &teacher, nil
}

// UpsertProfile creates or updates the instructor profile for a user
func (s *TeacherService) UpsertProfile(ctx context.Context, userID uint, in ProfileInput) (*model.Teacher, error) {
	var teacher model.Teacher
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		teacher = model.Teacher{
			UserID:     userID,
			Bio:        in.Bio,
			Expertise:  in.Expertise,
			Experience: in.Experience,
		}
		if err := s.db.WithContext(ctx).Create(&teacher).Error; err != nil {
			return nil, err
		}
		return &teacher, nil
	}
	if err != nil {
		return nil, err
	}

	teacher.Bio = in.Bio
	teacher.Expertise = in.Expertise
	teacher.Experience = in.Experience
	if err := s.db.WithContext(ctx).Save(&teacher).Error; err != nil {
		return nil, err
	}

	return &teacher, nil
}

// ListTeachers returns a page of instructor profiles with their users
func (s *TeacherService) ListTeachers(ctx context.Context, page, limit int) ([]model.Teacher, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Teacher{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teachers []model.Teacher
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&teachers).
		Error
	if err != nil {
		return nil, 0, err
	}

	return teachers, total, nil
}
