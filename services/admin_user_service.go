package services

import (
	"context"
	"errors"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/utils/apperror"
	"github.com/scholarity/scholarity-api/utils/auth"
	"gorm.io/gorm"
)

// AdminUserService handles admin-side account management
type AdminUserService struct {
	db        *gorm.DB
	blacklist *auth.BlacklistService
}

// NewAdminUserService creates a new admin user service
func NewAdminUserService(db *gorm.DB) *AdminUserService {
	return &AdminUserService{
		db:        db,
		blacklist: auth.NewBlacklistService(db),
	}
}

// UserFilter narrows a user listing
type UserFilter struct {
	Search string
	Role   string
	Page   int
	Limit  int
}

// ListUsers returns a filtered page of accounts with roles preloaded
func (s *AdminUserService) ListUsers(ctx context.Context, filter UserFilter) ([]model.User, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.User{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.name = ?", rbac.Normalize(filter.Role))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := query.
		Preload("Role").
		Order("users.created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&users).
		Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// GetUser returns a single account with role and profiles preloaded
func (s *AdminUserService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("Role").
		Preload("Teacher").
		Preload("Student").
		First(&user, userID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}

	return &user, nil
}

// ToggleActive flips an account between active and inactive. Deactivation
// bumps the token version so outstanding tokens stop working immediately.
func (s *AdminUserService) ToggleActive(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := !user.IsActive
	if err := s.db.WithContext(ctx).Model(user).Update("is_active", next).Error; err != nil {
		return nil, err
	}
	if !next {
		// Kill outstanding sessions when an account is switched off
		if err := s.blacklist.RevokeAllUserTokens(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	user.IsActive = next
	return user, nil
}

// ChangeRole reassigns an account's role by role name and bumps the token
// version so tokens carrying the old role are invalidated
func (s *AdminUserService) ChangeRole(ctx context.Context, userID uint, roleName string) (*model.User, error) {
	roleName = rbac.Normalize(roleName)
	if !rbac.IsKnown(roleName) {
		return nil, apperror.Validation("Unknown role: " + roleName)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var role model.Role
	if err := s.db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Role not found")
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"role_id":       role.ID,
				"token_version": gorm.Expr("token_version + ?", 1),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	user.RoleID = role.ID
	user.Role = role
	return user, nil
}

// DeleteUser soft-deletes an account
func (s *AdminUserService) DeleteUser(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

// ListRoles returns the role vocabulary with permissions preloaded
func (s *AdminUserService) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := s.db.WithContext(ctx).
		Preload("Permissions").
		Order("name ASC").
		Find(&roles).
		Error
	return roles, err
}

// ListAuditLogs returns admin audit entries newest-first
func (s *AdminUserService) ListAuditLogs(ctx context.Context, page, limit int) ([]model.AdminAuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.AdminAuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.AdminAuditLog
	err := s.db.WithContext(ctx).
		Preload("Admin").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).
		Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
