package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress is the per-user, per-course completion record. It is created
// lazily on the first progress fetch and seeded from the course's lectures at
// that moment.
type CourseProgress struct {
	gorm.Model
	UserID   uint              `gorm:"index;not null;uniqueIndex:idx_progress_pair" json:"userId"`
	CourseID uint              `gorm:"index;not null;uniqueIndex:idx_progress_pair" json:"courseId"`
	Lectures []LectureProgress `gorm:"foreignKey:CourseProgressID;constraint:OnDelete:CASCADE" json:"lectureProgress"`
}

type LectureProgress struct {
	gorm.Model
	CourseProgressID uint       `gorm:"index;not null" json:"-"`
	LectureID        uint       `gorm:"index;not null" json:"lectureId"`
	IsCompleted      bool       `gorm:"default:false" json:"isCompleted"`
	LastWatched      *time.Time `json:"lastWatched"`
	WatchTime        float64    `gorm:"default:0" json:"watchTime"` // seconds
}
