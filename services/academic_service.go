package services

import (
	"context"
	"errors"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"gorm.io/gorm"
)

// AcademicService manages the category/subject taxonomy and the request
// flow instructors use to extend it
type AcademicService struct {
	db *gorm.DB
}

// NewAcademicService creates a new academic service
func NewAcademicService(db *gorm.DB) *AcademicService {
	return &AcademicService{db: db}
}

// ListCategories returns the taxonomy with subjects preloaded
func (s *AcademicService) ListCategories(ctx context.Context) ([]model.AcademicCategory, error) {
	var categories []model.AcademicCategory
	err := s.db.WithContext(ctx).
		Preload("Subjects").
		Order("name ASC").
		Find(&categories).
		Error
	return categories, err
}

// CreateCategory adds a taxonomy entry directly (admin path, no request)
func (s *AcademicService) CreateCategory(ctx context.Context, name string) (*model.AcademicCategory, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.AcademicCategory{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("Category already exists")
	}

	category := &model.AcademicCategory{Name: name}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory renames a category
func (s *AcademicService) UpdateCategory(ctx context.Context, id uint, name string) (*model.AcademicCategory, error) {
	var category model.AcademicCategory
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Category not found")
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.AcademicCategory{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("Category already exists")
	}

	category.Name = name
	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

// DeleteCategory removes a category and its subjects. A missing ID is an
// error on the single-entity path.
func (s *AcademicService) DeleteCategory(ctx context.Context, id uint) error {
	var category model.AcademicCategory
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Category not found")
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.AcademicSubject{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// BulkDeleteCategories removes a set of categories; missing IDs are
// skipped silently. Returns the number removed.
func (s *AcademicService) BulkDeleteCategories(ctx context.Context, ids []uint) (int, error) {
	var found []uint
	if err := s.db.WithContext(ctx).Model(&model.AcademicCategory{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return 0, err
	}
	if len(found) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id IN ?", found).Delete(&model.AcademicSubject{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", found).Delete(&model.AcademicCategory{}).Error
	})
	if err != nil {
		return 0, err
	}

	return len(found), nil
}

// CreateSubject adds a subject under a category (admin path)
func (s *AcademicService) CreateSubject(ctx context.Context, categoryID uint, name string) (*model.AcademicSubject, error) {
	var category model.AcademicCategory
	if err := s.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Category not found")
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.AcademicSubject{}).Where("category_id = ? AND name = ?", categoryID, name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("Subject already exists in this category")
	}

	subject := &model.AcademicSubject{CategoryID: categoryID, Name: name}
	if err := s.db.WithContext(ctx).Create(subject).Error; err != nil {
		return nil, err
	}

	return subject, nil
}

// UpdateSubject renames a subject
func (s *AcademicService) UpdateSubject(ctx context.Context, id uint, name string) (*model.AcademicSubject, error) {
	var subject model.AcademicSubject
	if err := s.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Subject not found")
		}
		return nil, err
	}

	subject.Name = name
	if err := s.db.WithContext(ctx).Save(&subject).Error; err != nil {
		return nil, err
	}

	return &subject, nil
}

// DeleteSubject removes a subject. Missing ID is an error.
func (s *AcademicService) DeleteSubject(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.AcademicSubject{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Subject not found")
	}
	return nil
}

// RequestItem files a taxonomy request on behalf of an instructor.
// CATEGORY requests propose a new top-level entry; SUBJECT requests need
// the parent category.
func (s *AcademicService) RequestItem(ctx context.Context, userID uint, reqType, name string, categoryID *uint) (*model.AcademicRequest, error) {
	var teacher model.Teacher
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Instructor profile not found")
		}
		return nil, err
	}

	switch reqType {
	case model.RequestCategory:
		categoryID = nil
	case model.RequestSubject:
		if categoryID == nil {
			return nil, apperror.Validation("Subject requests require a parent category")
		}
		var category model.AcademicCategory
		if err := s.db.WithContext(ctx).First(&category, *categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("Category not found")
			}
			return nil, err
		}
	default:
		return nil, apperror.Validation("Request type must be CATEGORY or SUBJECT")
	}

	request := &model.AcademicRequest{
		TeacherID:  teacher.ID,
		Type:       reqType,
		Name:       name,
		CategoryID: categoryID,
		Status:     model.RequestPending,
	}

	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}

	return request, nil
}

// ListRequests returns taxonomy requests newest-first, optionally filtered
// by status, with the requesting instructor preloaded
func (s *AcademicService) ListRequests(ctx context.Context, status string, page, limit int) ([]model.AcademicRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.AcademicRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.AcademicRequest
	err := query.
		Preload("Teacher.User").
		Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).
		Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ResolveRequest decides a pending taxonomy request. Approval materializes
// the proposed category or subject in the same transaction as the status
// change; a name that was taken in the meantime surfaces as a conflict and
// leaves the request pending.
func (s *AcademicService) ResolveRequest(ctx context.Context, requestID uint, approve bool, reason string) (*model.AcademicRequest, error) {
	var request model.AcademicRequest
	if err := s.db.WithContext(ctx).First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Request not found")
		}
		return nil, err
	}

	if request.Status != model.RequestPending {
		return nil, apperror.InvalidState("Request has already been resolved")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !approve {
			request.Status = model.RequestRejected
			request.Reason = reason
			return tx.Save(&request).Error
		}

		switch request.Type {
		case model.RequestCategory:
			var count int64
			if err := tx.Model(&model.AcademicCategory{}).Where("name = ?", request.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperror.Conflict("Category already exists")
			}
			if err := tx.Create(&model.AcademicCategory{Name: request.Name}).Error; err != nil {
				return err
			}
		case model.RequestSubject:
			var count int64
			if err := tx.Model(&model.AcademicSubject{}).Where("category_id = ? AND name = ?", *request.CategoryID, request.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperror.Conflict("Subject already exists in this category")
			}
			if err := tx.Create(&model.AcademicSubject{CategoryID: *request.CategoryID, Name: request.Name}).Error; err != nil {
				return err
			}
		}

		request.Status = model.RequestApproved
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}
