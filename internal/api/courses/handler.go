package coursesapi

import (
	"net/http"

	"course-app/database"
	"course-app/internal/domain/courses"
	"course-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GET /courses
func ListCourses(c *gin.Context) {
	var list []courses.Course
	if err := database.DB.Order("id ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /courses/:id
func GetCourse(c *gin.Context) {
	var course courses.Course
	if err := database.DB.Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// GET /my-courses — the caller's owned set.
func ListMyCourses(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Preload("Courses").Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user.Courses)
}
