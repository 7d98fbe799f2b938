package model

import (
	"time"
)

// Application status values
const (
	ApplicationPending  = "PENDING"
	ApplicationApproved = "APPROVED"
	ApplicationRejected = "REJECTED"
	// ApplicationNotApplied is a synthetic status reported for users with
	// no application on record; it is never stored.
	ApplicationNotApplied = "NOT_APPLIED"
)

// InstructorApplication tracks a student's request to become an instructor.
// At most one application per user may be PENDING or APPROVED at a time;
// a rejected application is terminal and retrying requires a new record.
type InstructorApplication struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Bio             string     `gorm:"type:text;not null" json:"bio"`
	Expertise       string     `gorm:"type:text;not null" json:"expertise"`
	Experience      string     `gorm:"type:text;not null" json:"experience"`
	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ReviewedBy      *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Relationships
	User     User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}
