package notificationsapi

import (
	"net/http"

	"course-app/database"
	"course-app/internal/domain/notifications"

	"github.com/gin-gonic/gin"
)

// GET /notifications — the caller's notifications, newest first.
func ListNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var list []notifications.Notification
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, list)
}
