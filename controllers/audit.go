package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetAuditLogs lists audit entries for the admin system-logs screen, newest
// first, with optional action/entity filters.
func GetAuditLogs(c *gin.Context) {
	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	query := config.DB.Preload("User").Model(&models.AuditLog{})
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		query = query.Where("action = ?", action)
	}
	if entityType := strings.TrimSpace(c.Query("entity_type")); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count audit logs"})
		return
	}

	var logs []models.AuditLog
	if err := query.Order("log_id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
	})
}
