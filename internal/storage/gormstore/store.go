// Package gormstore implements the payment core's Store and OrderLedger
// contracts on GORM/Postgres. Concurrency-sensitive writes are single
// conditional statements (ON CONFLICT DO NOTHING inserts, guarded UPDATEs),
// never read-modify-write.
package gormstore

import (
	"context"
	"errors"

	"course-app/internal/domain/courses"
	"course-app/internal/domain/notifications"
	"course-app/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindUserByID(ctx context.Context, id uint) (*users.User, error) {
	var u users.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindCourseByID(ctx context.Context, id uint) (*courses.Course, error) {
	var c courses.Course
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) UserOwnsCourse(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&users.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// AddCourseToUser appends to the owned set. The join table's composite
// primary key turns the insert into the atomic insert-if-absent the grant
// logic relies on; the returned bool is whether this call inserted the row.
func (s *Store) AddCourseToUser(ctx context.Context, userID, courseID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&users.UserCourse{UserID: userID, CourseID: courseID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementCoursePurchased defaults an absent counter to zero before adding,
// so the first purchase lands the counter on 1.
func (s *Store) IncrementCoursePurchased(ctx context.Context, courseID uint) error {
	return s.db.WithContext(ctx).
		Model(&courses.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("purchased", gorm.Expr("COALESCE(purchased, 0) + 1")).Error
}

func (s *Store) InsertNotification(ctx context.Context, n *notifications.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}
