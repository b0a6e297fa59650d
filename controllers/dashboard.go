package controllers

import (
	"net/http"
	"time"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
	"scholarship-portal-api/services"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// nextDeadlineSummary builds the shared "next deadline" block shown on the
// student and committee dashboards.
func nextDeadlineSummary(now time.Time) gin.H {
	var scholarships []models.Scholarship
	if err := config.DB.Where("delete_at IS NULL").Find(&scholarships).Error; err != nil {
		return gin.H{"available": false}
	}

	deadline, days, ok := services.NextDeadline(scholarships, now)
	if !ok {
		return gin.H{"available": false}
	}

	return gin.H{
		"available": true,
		"deadline":  deadline.Format("2006-01-02"),
		"days":      days,
		"relative":  humanize.Time(deadline),
	}
}

// GetDashboardStats returns the aggregates for the caller's role dashboard.
func GetDashboardStats(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")
	now := time.Now()

	switch roleID.(int) {
	case models.RoleStudent:
		studentDashboard(c, userID.(int), now)
	case models.RoleReviewer:
		reviewerDashboard(c, userID.(int))
	case models.RoleCommittee:
		committeeDashboard(c, now)
	default:
		adminDashboard(c)
	}
}

func studentDashboard(c *gin.Context, studentID int, now time.Time) {
	var applications []models.Application
	if err := config.DB.Preload("Review").
		Where("student_id = ?", studentID).Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	counts := services.CountByStatus(applications)

	c.JSON(http.StatusOK, gin.H{
		"total_applications": len(applications),
		"by_status":          counts,
		"document_requests":  counts[models.AppStatusDocumentRequest],
		"awarded":            counts[models.AppStatusAwarded],
		"next_deadline":      nextDeadlineSummary(now),
	})
}

func reviewerDashboard(c *gin.Context, reviewerID int) {
	var reviewer models.User
	if err := config.DB.First(&reviewer, reviewerID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve reviewer"})
		return
	}

	var applications []models.Application
	if err := config.DB.Preload("Review").
		Where("assigned_reviewer = ?", reviewer.FullName()).
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	pending := 0
	completed := 0
	for _, application := range applications {
		if application.ReviewSubmitted() {
			completed++
		} else if !application.Status.IsTerminal() {
			pending++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"assigned":      len(applications),
		"pending":       pending,
		"completed":     completed,
		"average_score": services.AverageOverallScore(applications),
	})
}

func committeeDashboard(c *gin.Context, now time.Time) {
	var applications []models.Application
	if err := config.DB.Preload("Review").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	counts := services.CountByStatus(applications)

	c.JSON(http.StatusOK, gin.H{
		"total_applications":  len(applications),
		"awaiting_assignment": counts[models.AppStatusSubmitted],
		"pending_decisions":   len(services.PendingDecisions(applications)),
		"awarded":             counts[models.AppStatusAwarded],
		"rejected":            counts[models.AppStatusRejected],
		"average_score":       services.AverageOverallScore(applications),
		"next_deadline":       nextDeadlineSummary(now),
	})
}

func adminDashboard(c *gin.Context) {
	var applicationCount, scholarshipCount, userCount, decidedCount int64

	config.DB.Model(&models.Application{}).Count(&applicationCount)
	config.DB.Model(&models.Scholarship{}).Where("delete_at IS NULL").Count(&scholarshipCount)
	config.DB.Model(&models.User{}).Where("delete_at IS NULL").Count(&userCount)
	config.DB.Model(&models.Application{}).
		Where("status IN ?", []models.ApplicationStatus{models.AppStatusAwarded, models.AppStatusRejected}).
		Count(&decidedCount)

	c.JSON(http.StatusOK, gin.H{
		"total_applications": applicationCount,
		"total_scholarships": scholarshipCount,
		"total_users":        userCount,
		"decided":            decidedCount,
	})
}
