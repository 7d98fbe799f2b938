package model

import (
	"time"
)

// Teacher is the instructor profile, owned 1:1 by a User.
// It is created lazily: either by the first profile edit or when an
// instructor application is approved.
type Teacher struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio           string    `gorm:"type:text" json:"bio"`
	Expertise     string    `gorm:"type:text" json:"expertise"`
	Experience    string    `gorm:"type:text" json:"experience"` // Free text, e.g. "5 years"
	Rating        float64   `gorm:"default:0" json:"rating"`
	TotalStudents int       `gorm:"default:0" json:"total_students"`

	// Relationships
	User     User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Courses  []Course          `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
	Requests []AcademicRequest `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
}

// Student is the learner profile, owned 1:1 by a User
type Student struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio              string    `gorm:"type:text" json:"bio"`
	Interests        string    `gorm:"type:text" json:"interests"`
	EnrolledCourses  int       `gorm:"default:0" json:"enrolled_courses"`
	CompletedCourses int       `gorm:"default:0" json:"completed_courses"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
