package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
	"scholarship-portal-api/monitor"
	"scholarship-portal-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadSize = int64(10 * 1024 * 1024) // 10MB

var allowedUploadTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func uploadBasePath() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return uploadPath
}

// validateUpload rejects oversized files and unexpected extensions before
// anything is written.
func validateUpload(file *multipart.FileHeader) error {
	if file.Size > maxUploadSize {
		return fmt.Errorf("file %s exceeds the 10MB limit", file.Filename)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadTypes[ext] {
		return fmt.Errorf("file type %s is not allowed", ext)
	}
	return nil
}

// saveUpload stores the file under a uuid-hex name and returns the document
// row to persist.
func saveUpload(c *gin.Context, file *multipart.FileHeader, applicationID, uploadedBy int) (models.ApplicationDocument, error) {
	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	fullPath := filepath.Join(uploadBasePath(), storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		return models.ApplicationDocument{}, err
	}

	now := time.Now()
	return models.ApplicationDocument{
		ApplicationID:    applicationID,
		UploadedBy:       uploadedBy,
		OriginalFilename: file.Filename,
		StoredFilename:   storedName,
		MimeType:         file.Header.Get("Content-Type"),
		FileSize:         file.Size,
		URL:              "/uploads/" + storedName,
		UploadedAt:       &now,
		CreateAt:         &now,
	}, nil
}

// UploadDocument attaches one file to the caller's own application.
func UploadDocument(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	userID, _ := c.Get("userID")

	var application models.Application
	if err := config.DB.Where("application_id = ? AND student_id = ?", applicationID, userID).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if application.Status.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot upload documents to decided applications"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if err := validateUpload(file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	document, err := saveUpload(c, file, applicationID, userID.(int))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	if err := config.DB.Create(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record document"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document uploaded successfully",
		"document": document,
	})
}

// GetDocuments lists the documents attached to an application.
func GetDocuments(c *gin.Context) {
	applicationID := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := config.DB.Where("application_id = ?", applicationID)
	if roleID.(int) == models.RoleStudent {
		var owned int64
		config.DB.Model(&models.Application{}).
			Where("application_id = ? AND student_id = ?", applicationID, userID).
			Count(&owned)
		if owned == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
	}

	var documents []models.ApplicationDocument
	if err := query.Where("delete_at IS NULL").Order("document_id ASC").Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"total":     len(documents),
	})
}

// DownloadDocument streams a stored file.
func DownloadDocument(c *gin.Context) {
	documentID := c.Param("document_id")

	var document models.ApplicationDocument
	if err := config.DB.Where("document_id = ? AND delete_at IS NULL", documentID).
		First(&document).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	fullPath := filepath.Join(uploadBasePath(), document.StoredFilename)
	if _, err := os.Stat(fullPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		return
	}

	c.FileAttachment(fullPath, document.OriginalFilename)
}

// RequestDocuments lets the assigned reviewer flag missing document
// categories; the application moves to Document Request and the student is
// notified.
func RequestDocuments(c *gin.Context) {
	application, reviewer, ok := loadReviewContext(c)
	if !ok {
		return
	}

	var req struct {
		Categories []string `json:"categories" binding:"required"`
		Reason     string   `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	oldStatus := application.Status
	now := time.Now()

	if err := services.RequestDocuments(application, reviewer.FullName(), req.Categories, req.Reason, now); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrApplicationTerminal) || errors.Is(err, services.ErrReviewLocked) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Application{}).
		Where("application_id = ?", application.ApplicationID).
		Updates(map[string]interface{}{
			"status":                   application.Status,
			"document_request_reason":  application.DocumentRequestReason,
			"requested_documents_json": application.RequestedDocumentsJSON,
			"document_requested_at":    application.DocumentRequestedAt,
			"document_requested_by":    application.DocumentRequestedBy,
			"update_at":                application.UpdateAt,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record document request"})
		return
	}

	history := models.ApplicationStatusHistory{
		ApplicationID: application.ApplicationID,
		OldStatus:     oldStatus,
		NewStatus:     application.Status,
		ChangedBy:     userID.(int),
		Reason:        application.DocumentRequestReason,
		CreatedAt:     now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	if err := writeAuditLog(tx, c, userID.(int), "request_documents", "application", application.ApplicationID,
		"Missing documents requested", map[string]interface{}{
			"categories": req.Categories,
			"reason":     req.Reason,
		}); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record document request"})
		return
	}

	monitor.DocumentRequestsTotal.Inc()

	appID := application.ApplicationID
	message := fmt.Sprintf("The reviewer needs additional documents (%s): %s",
		strings.Join(req.Categories, ", "), strings.TrimSpace(req.Reason))
	createNotification(config.DB, application.StudentID, "Documents requested", message, "warning", &appID)
	notifyUserByEmail(config.DB, application.StudentID, "Documents requested", message)

	applicationPreloads(config.DB).First(application, application.ApplicationID)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Document request recorded",
		"application": application,
	})
}

// ResubmitDocuments uploads the student's replacement files and moves the
// application to Resubmitted. Document rows and the transition commit in one
// transaction: a mid-batch failure rolls everything back and the status is
// untouched (files already written to disk may be orphaned, matching the
// at-most-one-transition discipline).
func ResubmitDocuments(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	userID, _ := c.Get("userID")

	var application models.Application
	if err := config.DB.Where("application_id = ? AND student_id = ?", applicationID, userID).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload form"})
		return
	}
	files := form.File["files"]

	oldStatus := application.Status
	now := time.Now()
	if err := services.MarkResubmitted(&application, len(files), now); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrApplicationTerminal) || errors.Is(err, services.ErrNotDocumentRequest) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	for _, file := range files {
		if err := validateUpload(file); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	documents := make([]models.ApplicationDocument, 0, len(files))
	for _, file := range files {
		document, err := saveUpload(c, file, applicationID, userID.(int))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save %s", file.Filename)})
			return
		}
		documents = append(documents, document)
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for i := range documents {
		if err := tx.Create(&documents[i]).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record documents"})
			return
		}
	}

	if err := tx.Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"status":                   application.Status,
			"document_request_reason":  gorm.Expr("NULL"),
			"requested_documents_json": gorm.Expr("NULL"),
			"document_requested_at":    gorm.Expr("NULL"),
			"document_requested_by":    gorm.Expr("NULL"),
			"update_at":                application.UpdateAt,
		}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	history := models.ApplicationStatusHistory{
		ApplicationID: applicationID,
		OldStatus:     oldStatus,
		NewStatus:     application.Status,
		ChangedBy:     userID.(int),
		CreatedAt:     now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	if err := writeAuditLog(tx, c, userID.(int), "resubmit_documents", "application", applicationID,
		"Documents resubmitted", map[string]interface{}{
			"file_count": len(documents),
		}); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record resubmission"})
		return
	}

	appID := applicationID
	createNotification(config.DB, userID.(int), "Documents resubmitted",
		fmt.Sprintf("Your %d document(s) were received and the review will resume.", len(documents)),
		"success", &appID)

	applicationPreloads(config.DB).First(&application, applicationID)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Documents resubmitted successfully",
		"application": application,
		"documents":   documents,
	})
}
