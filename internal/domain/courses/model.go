package courses

import "time"

type Course struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Slug        string `gorm:"uniqueIndex:idx_courses_slug"`
	Description string
	Thumbnail   string
	PriceVND    int64   `gorm:"column:price_vnd"`
	PriceUSD    float64 `gorm:"column:price_usd"`
	// Purchased counts distinct successful orders; incremented exactly once
	// per grant, never decremented.
	Purchased int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
