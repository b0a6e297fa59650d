package controllers

import (
	"net/http"
	"time"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
	"scholarship-portal-api/utils"

	"github.com/gin-gonic/gin"
)

var roleNames = map[string]int{
	"student":   models.RoleStudent,
	"reviewer":  models.RoleReviewer,
	"committee": models.RoleCommittee,
	"admin":     models.RoleAdmin,
}

// GetUsersByRole lists active accounts for one role. The committee uses this
// to pick reviewers to assign.
func GetUsersByRole(c *gin.Context) {
	roleID, ok := roleNames[c.Param("role")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	var users []models.User
	if err := config.DB.Preload("Role").
		Where("role_id = ? AND delete_at IS NULL", roleID).
		Order("user_fname ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// GetUsers lists all active accounts (admin only).
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Preload("Role").
		Where("delete_at IS NULL").
		Order("user_id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// CreateUser provisions a reviewer or committee account (admin only).
func CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		Role      string `json:"role" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roleID, ok := roleNames[req.Role]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	if ok, reason := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	var existing int64
	config.DB.Model(&models.User{}).
		Where("email = ? AND delete_at IS NULL", req.Email).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname: utils.SanitizeInput(req.FirstName),
		UserLname: utils.SanitizeInput(req.LastName),
		Email:     req.Email,
		Password:  hash,
		RoleID:    roleID,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	adminID, _ := c.Get("userID")
	tx := config.DB
	_ = writeAuditLog(tx, c, adminID.(int), "create_user", "user", user.UserID,
		"Account provisioned", map[string]interface{}{
			"role": req.Role,
		})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user,
	})
}
