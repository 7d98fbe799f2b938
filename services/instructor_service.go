package services

import (
	"context"
	"errors"
	"time"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"github.com/scholarity/scholarity-api/utils/auth"
	"gorm.io/gorm"
)

// InstructorService handles the instructor application workflow
type InstructorService struct {
	db *gorm.DB
}

// NewInstructorService creates a new instructor service
func NewInstructorService(db *gorm.DB) *InstructorService {
	return &InstructorService{db: db}
}

// ApplicationInput carries the applicant-provided profile text
type ApplicationInput struct {
	Bio        string
	Expertise  string
	Experience string
}

// JoinInput carries the combined signup + application payload
type JoinInput struct {
	Email      string
	Password   string
	Name       string
	Bio        string
	Expertise  string
	Experience string
}

// Apply files an instructor application for an existing user.
//
// Only accounts holding the STUDENT role may apply: instructors already
// have the role, and approving an administrator's application would demote
// them. Only one application may be PENDING at a time. A rejected
// application is terminal; re-applying creates a fresh record. The
// uniqueness check is check-then-act: two simultaneous submissions can slip
// through, the admin review queue surfaces the duplicate.
func (s *InstructorService) Apply(ctx context.Context, userID uint, in ApplicationInput) (*model.InstructorApplication, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Role").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}

	if !rbac.Allowed(user.Role.Name, rbac.RoleStudent) {
		return nil, apperror.Forbidden("Only students can apply to become instructors")
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.InstructorApplication{}).
		Where("user_id = ? AND status IN ?", userID, []string{model.ApplicationPending, model.ApplicationApproved}).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.Conflict("You already have an application under review")
	}

	application := &model.InstructorApplication{
		UserID:     userID,
		Bio:        in.Bio,
		Expertise:  in.Expertise,
		Experience: in.Experience,
		Status:     model.ApplicationPending,
	}

	if err := s.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}

	return application, nil
}

// Join creates an account and an instructor application in one transaction.
// The account starts inactive and stays that way until the application is
// approved; login succeeds but active-gated routes reject it.
func (s *InstructorService) Join(ctx context.Context, in JoinInput) (*model.User, *model.InstructorApplication, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, apperror.Conflict("Email is already registered")
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, nil, apperror.Validation(err.Error())
	}

	var studentRole model.Role
	if err := s.db.WithContext(ctx).Where("name = ?", rbac.RoleStudent).First(&studentRole).Error; err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: passwordHash,
		Name:         in.Name,
		RoleID:       studentRole.ID,
		IsActive:     false,
	}
	application := &model.InstructorApplication{
		Bio:        in.Bio,
		Expertise:  in.Expertise,
		Experience: in.Experience,
		Status:     model.ApplicationPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		application.UserID = user.ID
		return tx.Create(application).Error
	})
	if err != nil {
		return nil, nil, err
	}

	user.Role = studentRole
	return user, application, nil
}

// Review records an admin decision on a pending application. Each
// application is decided exactly once.
//
// Approval promotes the applicant in a single transaction: role flips to
// TEACHER, the account becomes active, a Teacher profile is created (or
// updated) from the application text, and the token version is bumped so
// outstanding tokens with the stale role die.
func (s *InstructorService) Review(ctx context.Context, applicationID, reviewerID uint, approve bool, reason string) (*model.InstructorApplication, error) {
	var application model.InstructorApplication
	if err := s.db.WithContext(ctx).Preload("User").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, err
	}

	if application.Status != model.ApplicationPending {
		return nil, apperror.InvalidState("Application has already been reviewed")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		application.ReviewedBy = &reviewerID
		application.ReviewedAt = &now

		if !approve {
			application.Status = model.ApplicationRejected
			application.RejectionReason = reason
			return tx.Save(&application).Error
		}

		application.Status = model.ApplicationApproved
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		var teacherRole model.Role
		if err := tx.Where("name = ?", rbac.RoleTeacher).First(&teacherRole).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", application.UserID).
			Updates(map[string]interface{}{
				"role_id":       teacherRole.ID,
				"is_active":     true,
				"token_version": gorm.Expr("token_version + ?", 1),
			}).Error; err != nil {
			return err
		}

		// Upsert the instructor profile from the application text
		var profile model.Teacher
		err := tx.Where("user_id = ?", application.UserID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = model.Teacher{
				UserID:     application.UserID,
				Bio:        application.Bio,
				Expertise:  application.Expertise,
				Experience: application.Experience,
			}
			return tx.Create(&profile).Error
		}
		if err != nil {
			return err
		}

		profile.Bio = application.Bio
		profile.Expertise = application.Expertise
		profile.Experience = application.Experience
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	return &application, nil
}

// ListApplications returns applications newest-first, optionally filtered
// by status, with the applicant preloaded.
func (s *InstructorService) ListApplications(ctx context.Context, status string, page, limit int) ([]model.InstructorApplication, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.InstructorApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []model.InstructorApplication
	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&applications).
		Error
	if err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// VerificationStatus reports the outcome of a user's most recent
// application. Users with no application on record get NOT_APPLIED.
func (s *InstructorService) VerificationStatus(ctx context.Context, userID uint) (string, *model.InstructorApplication, error) {
	var application model.InstructorApplication
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&application).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ApplicationNotApplied, nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	return application.Status, &application, nil
}
