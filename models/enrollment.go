package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment records that a user holds access to a course. One row serves both
// denormalized views: the user's enrolled courses and the course's enrolled
// students. Rows are created only when a purchase completes.
type Enrollment struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null;uniqueIndex:idx_enrollment_pair" json:"userId"`
	CourseID   uint      `gorm:"index;not null;uniqueIndex:idx_enrollment_pair" json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course     *Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}
