package models

import "gorm.io/gorm"

type Lecture struct {
	gorm.Model
	CourseID    uint    `gorm:"index;not null" json:"courseId"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `json:"description"`
	VideoURL    string  `gorm:"not null" json:"videoUrl"`
	PublicID    string  `gorm:"not null" json:"publicId"`
	Duration    float64 `gorm:"default:0" json:"duration"` // seconds
	IsPreview   bool    `gorm:"default:false" json:"isPreview"`
	// 1-based position assigned at append time. Not renumbered on deletion.
	Order int `gorm:"column:lecture_order;not null" json:"order"`
}
