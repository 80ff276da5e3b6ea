package models

import "gorm.io/gorm"

// Course levels accepted by the catalog.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	gorm.Model
	Title        string  `gorm:"not null" json:"title"`
	Subtitle     string  `json:"subtitle"`
	Description  string  `json:"description"`
	Category     string  `gorm:"index;not null" json:"category"`
	Level        string  `gorm:"type:varchar(20);default:'beginner'" json:"level"`
	Price        float64 `gorm:"not null" json:"price"`
	ThumbnailID  string  `json:"-"`
	ThumbnailURL string  `json:"thumbnail"`
	InstructorID uint    `gorm:"index;not null" json:"instructorId"`
	IsPublished  bool    `gorm:"default:false" json:"isPublished"`

	// Denormalized counters, maintained on lecture mutation.
	TotalDuration float64 `gorm:"default:0" json:"totalDuration"`
	TotalLectures int     `gorm:"default:0" json:"totalLectures"`

	Instructor  *User        `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Lectures    []Lecture    `gorm:"foreignKey:CourseID" json:"lectures,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:CourseID" json:"enrolledStudents,omitempty"`
}
