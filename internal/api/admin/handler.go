package admin

import (
	"net/http"
	"time"

	"course-app/database"
	"course-app/internal/domain/courses"
	"course-app/internal/domain/orders"
	"course-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsVerified   bool   `json:"is_verified"`
	CoursesOwned int    `json:"courses_owned"`
}

type AdminOrder struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	CourseTitle string `json:"course_title"`
	Provider    string `json:"provider"`
	PaymentID   string `json:"payment_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type AdminStats struct {
	TotalUsers      int64            `json:"total_users"`
	PaidOrders      int64            `json:"paid_orders"`
	RecentPaid      int64            `json:"recent_paid_orders"`
	RevenueVND      int64            `json:"revenue_vnd"`
	RevenueUSD      float64          `json:"revenue_usd"`
	SalesPerCourse  map[string]int64 `json:"sales_per_course"`
}

// GET /admin/dashboard
func AdminDashboard(c *gin.Context) {
	var stats AdminStats
	stats.SalesPerCourse = map[string]int64{}

	database.DB.Model(&users.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&orders.Order{}).Where("status = ?", orders.StatusPaid).Count(&stats.PaidOrders)
	database.DB.Model(&orders.Order{}).
		Where("status = ? AND created_at > ?", orders.StatusPaid, time.Now().AddDate(0, 0, -30)).
		Count(&stats.RecentPaid)

	var paid []orders.Order
	if err := database.DB.Where("status = ?", orders.StatusPaid).Find(&paid).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	for _, o := range paid {
		if o.Payment.Qr != nil {
			stats.RevenueVND += o.Payment.Qr.Amount
		}
		if o.Payment.Card != nil {
			stats.RevenueUSD += float64(o.Payment.Card.AmountTotal) / 100
		}
	}

	var allCourses []courses.Course
	database.DB.Find(&allCourses)
	for _, course := range allCourses {
		stats.SalesPerCourse[course.Title] = course.Purchased
	}

	c.JSON(http.StatusOK, stats)
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Preload("Courses").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var adminUsers []AdminUser
	for _, u := range all {
		adminUsers = append(adminUsers, AdminUser{
			ID:           u.ID,
			Name:         u.Name,
			Lastname:     u.Lastname,
			Email:        u.Email,
			Role:         u.Role,
			IsVerified:   u.IsVerified,
			CoursesOwned: len(u.Courses),
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

// GET /admin/orders
func ListAllOrders(c *gin.Context) {
	var all []orders.Order
	if err := database.DB.
		Preload("User").
		Preload("Course").
		Order("created_at DESC").
		Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	var adminOrders []AdminOrder
	for _, o := range all {
		adminOrders = append(adminOrders, AdminOrder{
			ID:          o.ID,
			Email:       o.User.Email,
			CourseTitle: o.Course.Title,
			Provider:    string(o.Provider),
			PaymentID:   o.PaymentID,
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, adminOrders)
}
