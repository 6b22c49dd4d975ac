package checkout

import (
	"net/http"

	"course-app/database"
	"course-app/internal/domain/orders"

	"github.com/gin-gonic/gin"
)

// GET /orders — the caller's purchase history, newest first.
func GetOrderHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var history []orders.Order
	if err := database.DB.
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, history)
}
