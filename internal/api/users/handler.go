package users

import (
	"net/http"

	"course-app/config"
	"course-app/database"
	"course-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func verifiedRedirectURL() string {
	return config.APP_URL + "/signin"
}

type CourseDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type MeResponse struct {
	ID         uint        `json:"id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Lastname   string      `json:"lastname,omitempty"`
	Role       string      `json:"role"`
	IsVerified bool        `json:"is_verified"`
	Courses    []CourseDTO `json:"courses"`
}

// GET /me
func GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.
		Preload("Courses").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	owned := make([]CourseDTO, 0, len(user.Courses))
	for _, course := range user.Courses {
		owned = append(owned, CourseDTO{ID: course.ID, Title: course.Title, Slug: course.Slug})
	}

	c.JSON(http.StatusOK, MeResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Lastname:   user.Lastname,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		Courses:    owned,
	})
}

// GET /verify?token=...
func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	// A reset token must not verify an email; only the signup token will do.
	var t users.VerificationToken
	if err := database.DB.
		Where("token = ? AND purpose = ?", token, users.TokenPurposeEmailVerify).
		First(&t).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", t.UserID).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	database.DB.Delete(&t)

	c.Redirect(http.StatusTemporaryRedirect, verifiedRedirectURL())
}
