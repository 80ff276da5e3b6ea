package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name                string       `gorm:"not null" json:"name"`
	Email               string       `gorm:"unique;not null" json:"email"`
	Password            string       `gorm:"not null" json:"-"`
	Role                Role         `gorm:"type:varchar(20);default:'student'" json:"role"`
	Avatar              string       `gorm:"default:'default-avatar.png'" json:"avatar"`
	AvatarID            string       `json:"-"` // media asset id, needed to delete the old avatar
	Bio                 string       `json:"bio"`
	ResetPasswordToken  string       `gorm:"index" json:"-"`
	ResetPasswordExpire *time.Time   `json:"-"`
	LastActive          time.Time    `json:"lastActive"`
	Enrollments         []Enrollment `gorm:"foreignKey:UserID" json:"enrolledCourses,omitempty"`
}
