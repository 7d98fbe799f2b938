package model

import (
	"time"
)

// Academic request types
const (
	RequestCategory = "CATEGORY"
	RequestSubject  = "SUBJECT"
)

// Academic request status values
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

// AcademicCategory is a top-level taxonomy entry (e.g. "Programming")
type AcademicCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`

	// Relationships
	Subjects []AcademicSubject `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subjects,omitempty"`
}

// AcademicSubject is a taxonomy entry owned by a category
type AcademicSubject struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Name       string    `gorm:"not null" json:"name"`

	// Relationships
	Category AcademicCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// AcademicRequest proposes a new taxonomy entry on behalf of a teacher.
// Approval materializes the proposed category or subject.
type AcademicRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	TeacherID  uint      `gorm:"not null;index" json:"teacher_id"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"`
	Name       string    `gorm:"not null" json:"name"`
	CategoryID *uint     `json:"category_id,omitempty"` // Parent category for SUBJECT requests
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Reason     string    `gorm:"type:text" json:"reason,omitempty"` // Set on rejection

	// Relationships
	Teacher  Teacher           `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Category *AcademicCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
