package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"
	"scholarship-portal-api/monitor"
	"scholarship-portal-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type reviewPayload struct {
	Scores   []models.ReviewScore `json:"scores"`
	Comments string               `json:"comments"`
}

// loadReviewContext resolves the application, its scholarship rubric and the
// acting reviewer, enforcing that the caller is the assigned reviewer.
func loadReviewContext(c *gin.Context) (*models.Application, *models.User, bool) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || applicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return nil, nil, false
	}

	userID, _ := c.Get("userID")
	var reviewer models.User
	if err := config.DB.First(&reviewer, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve reviewer"})
		return nil, nil, false
	}

	var application models.Application
	if err := applicationPreloads(config.DB).First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return nil, nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load application"})
		return nil, nil, false
	}

	if application.AssignedReviewer == nil || *application.AssignedReviewer != reviewer.FullName() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Application is not assigned to you"})
		return nil, nil, false
	}

	return &application, &reviewer, true
}

// GetReviewDraft returns the working evaluation for the application: the
// persisted review when one exists, otherwise a fresh draft with one unscored
// entry per rubric criterion.
func GetReviewDraft(c *gin.Context) {
	application, reviewer, ok := loadReviewContext(c)
	if !ok {
		return
	}

	draft := services.NewReviewDraft(application.Scholarship.Criteria(), application.Review,
		reviewer.UserID, reviewer.FullName())

	c.JSON(http.StatusOK, gin.H{
		"review":   draft,
		"editable": services.ReviewEditable(application, application.Review),
	})
}

// SaveReviewDraft persists score and comment edits while the evaluation is
// still editable. Zero scores are allowed here; submission is what validates
// the full rubric.
func SaveReviewDraft(c *gin.Context) {
	application, reviewer, ok := loadReviewContext(c)
	if !ok {
		return
	}

	var req reviewPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := services.NewReviewDraft(application.Scholarship.Criteria(), application.Review,
		reviewer.UserID, reviewer.FullName())

	now := time.Now()
	for _, score := range req.Scores {
		if err := services.UpdateScore(application, &draft, score.Criteria, score.Score, now); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, services.ErrReviewLocked) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
	}
	if err := services.UpdateComments(application, &draft, req.Comments, now); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	draft.ApplicationID = application.ApplicationID
	if err := upsertReview(&draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review draft saved",
		"review":  draft,
	})
}

// SubmitReview finalizes the evaluation. Every rubric criterion must carry a
// score in [1,10]; the application status is untouched, only the review locks.
func SubmitReview(c *gin.Context) {
	application, reviewer, ok := loadReviewContext(c)
	if !ok {
		return
	}

	var req reviewPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := services.NewReviewDraft(application.Scholarship.Criteria(), application.Review,
		reviewer.UserID, reviewer.FullName())

	now := time.Now()
	for _, score := range req.Scores {
		if err := services.UpdateScore(application, &draft, score.Criteria, score.Score, now); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, services.ErrReviewLocked) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
	}
	if err := services.UpdateComments(application, &draft, req.Comments, now); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if err := services.SubmitReview(application, &draft, now); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrReviewLocked) || errors.Is(err, services.ErrApplicationTerminal) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	draft.ApplicationID = application.ApplicationID
	if err := upsertReviewTx(tx, &draft); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}

	if err := writeAuditLog(tx, c, userID.(int), "submit_review", "application", application.ApplicationID,
		"Review evaluation submitted", map[string]interface{}{
			"overall_score": draft.OverallScore,
		}); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}

	monitor.ReviewsSubmitted.Inc()

	appID := application.ApplicationID
	createNotification(config.DB, application.StudentID, "Application reviewed",
		"Your application has been evaluated and is awaiting a committee decision.",
		"info", &appID)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Review submitted with overall score %.1f", draft.OverallScore),
		"review":  draft,
	})
}

func upsertReview(review *models.ReviewEvaluation) error {
	return upsertReviewTx(config.DB, review)
}

func upsertReviewTx(tx *gorm.DB, review *models.ReviewEvaluation) error {
	var existing models.ReviewEvaluation
	err := tx.Where("application_id = ?", review.ApplicationID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(review).Error
	}
	if err != nil {
		return err
	}
	review.ReviewID = existing.ReviewID
	return tx.Save(review).Error
}
