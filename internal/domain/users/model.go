package users

import (
	"time"

	"course-app/internal/domain/courses"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Lastname     string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string
	IsVerified   bool

	// Owned courses. Rows in user_courses are only ever inserted, never
	// removed; membership is the entitlement.
	Courses []courses.Course `gorm:"many2many:user_courses;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserCourse is one membership row of the owned-course set. The composite
// primary key is the unique constraint that lets a grant run as a single
// insert-if-absent at the storage layer.
type UserCourse struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	CourseID  uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

func (UserCourse) TableName() string {
	return "user_courses"
}
