package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
	"scholarship-portal-api/monitor"
	"scholarship-portal-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// applicationPreloads loads everything the dashboards and detail screens
// need in one query.
func applicationPreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Scholarship").
		Preload("Review").Preload("Documents", "delete_at IS NULL")
}

// GetApplications returns the applications visible to the caller's role:
// students see their own, reviewers the ones assigned to them, committee and
// admin see everything.
func GetApplications(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := applicationPreloads(config.DB)

	switch roleID.(int) {
	case models.RoleStudent:
		query = query.Where("student_id = ?", userID)
	case models.RoleReviewer:
		var reviewer models.User
		if err := config.DB.First(&reviewer, userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve reviewer"})
			return
		}
		query = query.Where("assigned_reviewer = ?", reviewer.FullName())
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if scholarship := c.Query("scholarship_id"); scholarship != "" {
		query = query.Where("scholarship_id = ?", scholarship)
	}

	var applications []models.Application
	if err := query.Order("application_id ASC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplication returns single application by ID
func GetApplication(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := applicationPreloads(config.DB).Where("application_id = ?", id)
	if roleID.(int) == models.RoleStudent {
		query = query.Where("student_id = ?", userID)
	}

	var application models.Application
	if err := query.First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
	})
}

// CreateApplication handles a student submitting to a scholarship. Deadline
// and duplicate guards run before anything is written.
func CreateApplication(c *gin.Context) {
	type CreateApplicationRequest struct {
		ScholarshipID int `json:"scholarship_id" binding:"required"`
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	studentID := userID.(int)

	var scholarship models.Scholarship
	if err := config.DB.Where("scholarship_id = ? AND delete_at IS NULL", req.ScholarshipID).
		First(&scholarship).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scholarship"})
		return
	}

	var existing []models.Application
	if err := config.DB.Where("student_id = ?", studentID).Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing applications"})
		return
	}

	application, err := services.NewApplication(scholarship, existing, studentID, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&application).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	history := models.ApplicationStatusHistory{
		ApplicationID: application.ApplicationID,
		OldStatus:     models.AppStatusDraft,
		NewStatus:     application.Status,
		ChangedBy:     studentID,
		CreatedAt:     time.Now(),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	if err := writeAuditLog(tx, c, studentID, "submit", "application", application.ApplicationID,
		fmt.Sprintf("Application submitted for %s", scholarship.Name), map[string]interface{}{
			"scholarship_id": scholarship.ScholarshipID,
			"status":         application.Status,
		}); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	monitor.ApplicationsSubmitted.Inc()

	appID := application.ApplicationID
	createNotification(config.DB, studentID, "Application submitted",
		fmt.Sprintf("Your application for %s has been received.", scholarship.Name),
		"success", &appID)

	applicationPreloads(config.DB).First(&application, application.ApplicationID)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application created successfully",
		"application": application,
	})
}

// AssignReviewer sets or clears the reviewer on an application (committee
// only). An empty reviewer_id clears the assignment without touching the
// status.
func AssignReviewer(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	type AssignReviewerRequest struct {
		ReviewerID int `json:"reviewer_id"`
	}

	var req AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	reviewerName := ""
	if req.ReviewerID != 0 {
		var reviewer models.User
		if err := config.DB.Where("user_id = ? AND role_id = ? AND delete_at IS NULL",
			req.ReviewerID, models.RoleReviewer).First(&reviewer).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reviewer not found"})
			return
		}
		reviewerName = reviewer.FullName()
	}

	var application models.Application
	if err := applicationPreloads(config.DB).First(&application, applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	oldStatus := application.Status
	if err := services.AssignReviewer(&application, reviewerName, time.Now()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	updates := map[string]interface{}{
		"assigned_reviewer": application.AssignedReviewer,
		"status":            application.Status,
		"update_at":         application.UpdateAt,
	}
	if err := tx.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign reviewer"})
		return
	}

	if application.Status != oldStatus {
		history := models.ApplicationStatusHistory{
			ApplicationID: applicationID,
			OldStatus:     oldStatus,
			NewStatus:     application.Status,
			ChangedBy:     userID.(int),
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
			return
		}
	}

	action := "assign_reviewer"
	description := fmt.Sprintf("Reviewer %s assigned", reviewerName)
	if reviewerName == "" {
		action = "clear_reviewer"
		description = "Reviewer assignment cleared"
	}
	if err := writeAuditLog(tx, c, userID.(int), action, "application", applicationID,
		description, map[string]interface{}{
			"reviewer_id": req.ReviewerID,
			"status":      application.Status,
		}); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign reviewer"})
		return
	}

	if reviewerName != "" {
		appID := applicationID
		createNotification(config.DB, req.ReviewerID, "New application assigned",
			fmt.Sprintf("You have been assigned to review application #%d.", applicationID),
			"info", &appID)
	}

	applicationPreloads(config.DB).First(&application, applicationID)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reviewer assignment updated",
		"application": application,
	})
}

// DecideApplication applies the committee's Award/Reject verdict. A decision
// against an already-decided application is a no-op that returns the record
// unchanged.
func DecideApplication(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision := models.ApplicationStatus(strings.TrimSpace(req.Decision))
	userID, _ := c.Get("userID")

	var application models.Application
	if err := applicationPreloads(config.DB).First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load application"})
		return
	}

	oldStatus := application.Status
	changed, err := services.Decide(&application, decision, time.Now())
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, services.ErrInvalidDecision) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if !changed {
		// Already terminal: duplicate or late decision, tolerated as a no-op.
		c.JSON(http.StatusOK, gin.H{
			"message":     "Application already decided",
			"application": application,
		})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"status":    application.Status,
			"update_at": application.UpdateAt,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record decision"})
		return
	}

	history := models.ApplicationStatusHistory{
		ApplicationID: applicationID,
		OldStatus:     oldStatus,
		NewStatus:     application.Status,
		ChangedBy:     userID.(int),
		CreatedAt:     time.Now(),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	if err := writeAuditLog(tx, c, userID.(int), "decide", "application", applicationID,
		fmt.Sprintf("Application %s", strings.ToLower(string(decision))), map[string]interface{}{
			"decision": decision,
		}); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize decision"})
		return
	}

	monitor.DecisionsTotal.WithLabelValues(string(decision)).Inc()

	notifyDecision(application, decision, userID.(int))

	applicationPreloads(config.DB).First(&application, applicationID)

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Application %s", strings.ToLower(string(decision))),
		"application": application,
	})
}

// notifyDecision fans out the student and committee notifications plus the
// student e-mail after a committed decision.
func notifyDecision(application models.Application, decision models.ApplicationStatus, committeeID int) {
	scholarshipName := application.Scholarship.Name
	if scholarshipName == "" {
		var scholarship models.Scholarship
		if err := config.DB.First(&scholarship, application.ScholarshipID).Error; err == nil {
			scholarshipName = scholarship.Name
		}
	}

	appID := application.ApplicationID
	if decision == models.AppStatusAwarded {
		message := fmt.Sprintf("Congratulations! You have been awarded the %s.", scholarshipName)
		createNotification(config.DB, application.StudentID, "Scholarship awarded", message, "success", &appID)
		notifyUserByEmail(config.DB, application.StudentID, "Scholarship awarded", message)
	} else {
		message := fmt.Sprintf("Your application for %s was not selected.", scholarshipName)
		createNotification(config.DB, application.StudentID, "Application decision", message, "warning", &appID)
		notifyUserByEmail(config.DB, application.StudentID, "Application decision", message)
	}

	createNotification(config.DB, committeeID, "Decision recorded",
		fmt.Sprintf("Decision %s recorded for application #%d.", decision, application.ApplicationID),
		"info", &appID)
}

// writeAuditLog appends an audit row inside the caller's transaction.
func writeAuditLog(tx *gorm.DB, c *gin.Context, userID int, action, entityType string, entityID int, description string, values map[string]interface{}) error {
	serialized, _ := json.Marshal(values)
	payload := string(serialized)
	entity := entityID
	audit := models.AuditLog{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entity,
		Description: &description,
		NewValues:   &payload,
		IPAddress:   c.ClientIP(),
		CreatedAt:   time.Now(),
	}
	if userAgent := strings.TrimSpace(c.GetHeader("User-Agent")); userAgent != "" {
		audit.UserAgent = &userAgent
	}
	return tx.Create(&audit).Error
}
