package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	RoleID       uint           `gorm:"not null;index" json:"role_id"`
	IsActive     bool           `gorm:"default:true" json:"is_active"` // Instructor-joiners start inactive until reviewed
	TokenVersion int            `gorm:"default:0" json:"-"`            // Increment to invalidate all user tokens

	// Relationships
	Role           Role                    `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Teacher        *Teacher                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
	Student        *Student                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Applications   []InstructorApplication `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CourseLogs     []CourseLog             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AdminAuditLog  []AdminAuditLog         `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Role is a named role owning a set of permissions
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null;type:varchar(50)" json:"name"`

	// Relationships
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:RoleID" json:"-"`
}

// Permission is a single grantable capability
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null;type:varchar(100)" json:"name"`

	// Relationships
	Roles []Role `gorm:"many2many:role_permissions;" json:"-"`
}
