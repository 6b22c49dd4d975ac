package database

import (
	"fmt"
	"log"
	"os"

	"course-app/internal/domain/courses"
	"course-app/internal/domain/notifications"
	"course-app/internal/domain/orders"
	"course-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	// ✅ REQUIRED for UUID generation
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	// Owned-course membership lives in an explicit join model so grants can
	// ride its composite primary key.
	if err := DB.SetupJoinTable(&users.User{}, "Courses", &users.UserCourse{}); err != nil {
		log.Fatal("❌ Failed to set up user_courses join table:", err)
	}

	if err := DB.AutoMigrate(
		// core
		&users.User{},
		&users.VerificationToken{},
		&courses.Course{},
		&users.UserCourse{},

		// payments
		&orders.Order{},
		&notifications.Notification{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	seedCourses()

	fmt.Println("✅ Connected and migrated successfully")
}

// seedCourses fills an empty catalog with a starter set so a fresh install
// has something to sell.
func seedCourses() {
	var count int64
	DB.Model(&courses.Course{}).Count(&count)
	if count > 0 {
		return
	}

	starter := []courses.Course{
		{
			Title:       "Fullstack Web Development",
			Slug:        "fullstack-web-development",
			Description: "HTML, CSS, JavaScript, Node.js and a real deployment.",
			PriceVND:    1_200_000,
			PriceUSD:    49,
		},
		{
			Title:       "Practical SQL for Backend Engineers",
			Slug:        "practical-sql",
			Description: "Schema design, indexes and query tuning on Postgres.",
			PriceVND:    900_000,
			PriceUSD:    39,
		},
		{
			Title:       "React from Zero",
			Slug:        "react-from-zero",
			Description: "Components, hooks, state management and testing.",
			PriceVND:    750_000,
			PriceUSD:    29,
		},
	}

	if err := DB.Create(&starter).Error; err != nil {
		log.Println("❌ Failed to seed courses:", err)
	}
}
