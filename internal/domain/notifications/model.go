package notifications

import "time"

type Notification struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Title     string
	Message   string
	CreatedAt time.Time
}
