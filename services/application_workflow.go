package services

import (
	"errors"
	"strings"
	"time"

	"scholarship-portal-api/models"
)

// Guard errors surfaced by the workflow transitions. Controllers map these to
// HTTP responses; nothing here touches the database.
var (
	ErrDeadlinePassed       = errors.New("scholarship deadline has passed")
	ErrDuplicateApplication = errors.New("an application for this scholarship already exists")
	ErrApplicationTerminal  = errors.New("application has already received a final decision")
	ErrNotUnderReview       = errors.New("application is not under review")
	ErrNotDocumentRequest   = errors.New("application has no open document request")
	ErrReviewLocked         = errors.New("review has already been submitted")
	ErrReviewNotSubmitted   = errors.New("review has not been submitted yet")
	ErrRequestReasonBlank   = errors.New("document request reason is required")
	ErrRequestNoCategories  = errors.New("at least one document category is required")
	ErrNoFilesSupplied      = errors.New("at least one file is required")
	ErrInvalidDecision      = errors.New("decision must be Awarded or Rejected")
)

// NewApplication builds the Submitted record for a student applying to a
// scholarship. It fails fast before any state exists: past-deadline listings
// and duplicate (student, scholarship) pairs are rejected up front.
func NewApplication(scholarship models.Scholarship, existing []models.Application, studentID int, now time.Time) (models.Application, error) {
	if scholarship.DeadlinePassed(now) {
		return models.Application{}, ErrDeadlinePassed
	}
	for _, application := range existing {
		if application.StudentID == studentID && application.ScholarshipID == scholarship.ScholarshipID {
			return models.Application{}, ErrDuplicateApplication
		}
	}

	submission := now
	return models.Application{
		ScholarshipID:  scholarship.ScholarshipID,
		StudentID:      studentID,
		Status:         models.AppStatusSubmitted,
		SubmissionDate: &submission,
		CreateAt:       &submission,
		UpdateAt:       &submission,
	}, nil
}

// AssignReviewer sets or clears the assigned reviewer. A non-empty name moves
// any non-terminal application to Under Review; an empty name only clears the
// assignment and never advances the status.
func AssignReviewer(application *models.Application, reviewerName string, now time.Time) error {
	if application.Status.IsTerminal() {
		return ErrApplicationTerminal
	}

	name := strings.TrimSpace(reviewerName)
	if name == "" {
		application.AssignedReviewer = nil
	} else {
		application.AssignedReviewer = &name
		application.Status = models.AppStatusUnderReview
	}
	application.UpdateAt = &now
	return nil
}

// RequestDocuments flags missing document categories and moves the
// application to Document Request. A new request supersedes any prior one;
// open requests are never stacked.
func RequestDocuments(application *models.Application, reviewerName string, categories []string, reason string, now time.Time) error {
	if application.Status.IsTerminal() {
		return ErrApplicationTerminal
	}
	if application.ReviewSubmitted() {
		return ErrReviewLocked
	}
	if strings.TrimSpace(reason) == "" {
		return ErrRequestReasonBlank
	}

	cleaned := make([]string, 0, len(categories))
	for _, category := range categories {
		if trimmed := strings.TrimSpace(category); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return ErrRequestNoCategories
	}

	application.SetDocumentRequest(models.DocumentRequest{
		Reason:      strings.TrimSpace(reason),
		Categories:  cleaned,
		RequestedAt: now,
		RequestedBy: strings.TrimSpace(reviewerName),
	})
	application.Status = models.AppStatusDocumentRequest
	application.UpdateAt = &now
	return nil
}

// MarkResubmitted closes the open document request once the student has
// supplied replacement files. The caller records the uploaded documents in the
// same transaction so either all of them land with the transition or none do.
func MarkResubmitted(application *models.Application, uploadedCount int, now time.Time) error {
	if application.Status.IsTerminal() {
		return ErrApplicationTerminal
	}
	if application.Status != models.AppStatusDocumentRequest {
		return ErrNotDocumentRequest
	}
	if uploadedCount < 1 {
		return ErrNoFilesSupplied
	}

	application.ClearDocumentRequest()
	application.Status = models.AppStatusResubmitted
	application.UpdateAt = &now
	return nil
}

// Decide applies the committee's final verdict. A decision on an already
// terminal application reports changed=false with no error so duplicate or
// late calls stay harmless; any other guard failure is an error and leaves
// the record untouched.
func Decide(application *models.Application, decision models.ApplicationStatus, now time.Time) (bool, error) {
	if decision != models.AppStatusAwarded && decision != models.AppStatusRejected {
		return false, ErrInvalidDecision
	}
	if application.Status.IsTerminal() {
		return false, nil
	}
	if application.Status != models.AppStatusUnderReview {
		return false, ErrNotUnderReview
	}
	if !application.ReviewSubmitted() {
		return false, ErrReviewNotSubmitted
	}

	application.Status = decision
	application.UpdateAt = &now
	return true, nil
}
