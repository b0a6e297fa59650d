package controllers

import (
	"net/http"
	"strconv"
	"time"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
	"scholarship-portal-api/services"

	"github.com/gin-gonic/gin"
)

type scholarshipRequest struct {
	Name        string   `json:"name" binding:"required"`
	Amount      string   `json:"amount" binding:"required"`
	Deadline    string   `json:"deadline"` // YYYY-MM-DD, empty = open-ended
	Description string   `json:"description"`
	Criteria    []string `json:"criteria" binding:"required,min=1"`
}

func parseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	deadline, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	// Applications stay open through the deadline day.
	end := deadline.Add(24*time.Hour - time.Second)
	return &end, nil
}

// GetScholarships returns the catalog. open=true filters to listings still
// accepting applications.
func GetScholarships(c *gin.Context) {
	var scholarships []models.Scholarship
	if err := config.DB.Where("delete_at IS NULL").
		Order("scholarship_id ASC").Find(&scholarships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scholarships"})
		return
	}

	if c.Query("open") == "true" {
		scholarships = services.OpenScholarships(scholarships, time.Now())
	}

	c.JSON(http.StatusOK, gin.H{
		"scholarships": scholarships,
		"total":        len(scholarships),
	})
}

// GetScholarship returns one catalog entry.
func GetScholarship(c *gin.Context) {
	id := c.Param("id")

	var scholarship models.Scholarship
	if err := config.DB.Where("scholarship_id = ? AND delete_at IS NULL", id).
		First(&scholarship).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scholarship not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scholarship": scholarship})
}

// CreateScholarship adds a catalog entry (admin only).
func CreateScholarship(c *gin.Context) {
	var req scholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deadline must be YYYY-MM-DD"})
		return
	}

	now := time.Now()
	scholarship := models.Scholarship{
		Name:        req.Name,
		Amount:      req.Amount,
		Deadline:    deadline,
		Description: req.Description,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	scholarship.SetCriteria(req.Criteria)

	if err := config.DB.Create(&scholarship).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create scholarship"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Scholarship created successfully",
		"scholarship": scholarship,
	})
}

// UpdateScholarship edits a catalog entry (admin only).
func UpdateScholarship(c *gin.Context) {
	id := c.Param("id")

	var req scholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var scholarship models.Scholarship
	if err := config.DB.Where("scholarship_id = ? AND delete_at IS NULL", id).
		First(&scholarship).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scholarship not found"})
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deadline must be YYYY-MM-DD"})
		return
	}

	now := time.Now()
	scholarship.Name = req.Name
	scholarship.Amount = req.Amount
	scholarship.Deadline = deadline
	scholarship.Description = req.Description
	scholarship.SetCriteria(req.Criteria)
	scholarship.UpdateAt = &now

	if err := config.DB.Save(&scholarship).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scholarship"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Scholarship updated successfully",
		"scholarship": scholarship,
	})
}

// DeleteScholarship soft deletes a catalog entry. Listings referenced by any
// application cannot be removed.
func DeleteScholarship(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scholarship ID"})
		return
	}

	var scholarship models.Scholarship
	if err := config.DB.Where("scholarship_id = ? AND delete_at IS NULL", id).
		First(&scholarship).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scholarship not found"})
		return
	}

	var referenced int64
	config.DB.Model(&models.Application{}).
		Where("scholarship_id = ?", id).Count(&referenced)
	if referenced > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Scholarship has applications and cannot be deleted"})
		return
	}

	now := time.Now()
	scholarship.DeleteAt = &now
	if err := config.DB.Save(&scholarship).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scholarship"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scholarship deleted successfully"})
}
