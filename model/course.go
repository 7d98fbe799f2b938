package model

import (
	"time"
)

// Course status values. Transitions:
// DRAFT -> PENDING -> {APPROVED, REJECTED}; APPROVED <-> DISABLED;
// REJECTED -> PENDING via resubmit.
const (
	CourseDraft    = "DRAFT"
	CoursePending  = "PENDING"
	CourseApproved = "APPROVED"
	CourseRejected = "REJECTED"
	CourseDisabled = "DISABLED"
)

// Lesson type values
const (
	LessonVideo    = "VIDEO"
	LessonDocument = "DOCUMENT"
)

// Course log actions
const (
	LogSubmitted = "SUBMITTED"
	LogApproved  = "APPROVED"
	LogRejected  = "REJECTED"
)

// Course is authored content owned by a Teacher profile
type Course struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	TeacherID     uint      `gorm:"not null;index" json:"teacher_id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Thumbnail     string    `json:"thumbnail"`
	Price         float64   `gorm:"default:0" json:"price"`
	Duration      int       `gorm:"default:0" json:"duration"` // Seconds, denormalized from lessons
	Status        string    `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	AdminComments string    `gorm:"type:text" json:"admin_comments,omitempty"`
	CategoryID    uint      `gorm:"not null;index" json:"category_id"`
	SubjectID     uint      `gorm:"not null;index" json:"subject_id"`

	// Relationships
	Teacher  Teacher          `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Category AcademicCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subject  AcademicSubject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Units    []Unit           `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
	Logs     []CourseLog      `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Unit is an ordered section within a course
type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"not null" json:"title"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`

	// Relationships
	Course  Course   `gorm:"foreignKey:CourseID" json:"-"`
	Lessons []Lesson `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// Lesson is a single piece of content within a unit
type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UnitID    uint      `gorm:"not null;index" json:"unit_id"`
	Title     string    `gorm:"not null" json:"title"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	Type      string    `gorm:"type:varchar(20);not null;default:'VIDEO'" json:"type"`
	Duration  int       `gorm:"default:0" json:"duration"` // Seconds
	VideoURL  string    `json:"video_url,omitempty"`
	IsFree    bool      `gorm:"default:false" json:"is_free"`

	// Relationships
	Unit      Unit       `gorm:"foreignKey:UnitID" json:"-"`
	Resources []Resource `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"resources,omitempty"`
}

// Resource is a downloadable attachment on a lesson. Updates replace the
// full set for a lesson rather than merging.
type Resource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LessonID  uint      `gorm:"not null;index" json:"lesson_id"`
	Title     string    `gorm:"not null" json:"title"`
	URL       string    `gorm:"not null" json:"url"`
	Type      string    `gorm:"type:varchar(20)" json:"type"`

	// Relationships
	Lesson Lesson `gorm:"foreignKey:LessonID" json:"-"`
}

// CourseLog is the append-only audit record of course workflow transitions.
// A log entry is always written in the same transaction as the transition
// it records.
type CourseLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Action    string    `gorm:"type:varchar(30);not null" json:"action"`
	Comment   string    `gorm:"type:text" json:"comment"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
