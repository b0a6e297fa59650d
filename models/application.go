package models

import (
	"encoding/json"
	"time"
)

// ApplicationStatus is the lifecycle state of a scholarship application.
type ApplicationStatus string

const (
	AppStatusDraft           ApplicationStatus = "Draft"
	AppStatusSubmitted       ApplicationStatus = "Submitted"
	AppStatusUnderReview     ApplicationStatus = "Under Review"
	AppStatusDocumentRequest ApplicationStatus = "Document Request"
	AppStatusResubmitted     ApplicationStatus = "Resubmitted"
	AppStatusAwarded         ApplicationStatus = "Awarded"
	AppStatusRejected        ApplicationStatus = "Rejected"
)

// IsTerminal reports whether no further transitions are permitted.
func (s ApplicationStatus) IsTerminal() bool {
	return s == AppStatusAwarded || s == AppStatusRejected
}

// Valid reports whether s is one of the known lifecycle states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case AppStatusDraft, AppStatusSubmitted, AppStatusUnderReview,
		AppStatusDocumentRequest, AppStatusResubmitted,
		AppStatusAwarded, AppStatusRejected:
		return true
	}
	return false
}

// Application is one student's submission against one scholarship. The four
// document_request_* columns are only touched through DocumentRequest /
// SetDocumentRequest / ClearDocumentRequest so they move as a unit.
type Application struct {
	ApplicationID    int               `gorm:"primaryKey;column:application_id" json:"application_id"`
	ScholarshipID    int               `gorm:"column:scholarship_id" json:"scholarship_id"`
	StudentID        int               `gorm:"column:student_id" json:"student_id"`
	Status           ApplicationStatus `gorm:"column:status" json:"status"`
	SubmissionDate   *time.Time        `gorm:"column:submission_date" json:"submission_date,omitempty"`
	AssignedReviewer *string           `gorm:"column:assigned_reviewer" json:"assigned_reviewer,omitempty"`

	DocumentRequestReason  *string    `gorm:"column:document_request_reason" json:"document_request_reason,omitempty"`
	RequestedDocumentsJSON *string    `gorm:"column:requested_documents_json" json:"-"`
	DocumentRequestedAt    *time.Time `gorm:"column:document_requested_at" json:"document_requested_at,omitempty"`
	DocumentRequestedBy    *string    `gorm:"column:document_requested_by" json:"document_requested_by,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Student     User                  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Scholarship Scholarship           `gorm:"foreignKey:ScholarshipID" json:"scholarship,omitempty"`
	Review      *ReviewEvaluation     `gorm:"foreignKey:ApplicationID" json:"review,omitempty"`
	Documents   []ApplicationDocument `gorm:"foreignKey:ApplicationID" json:"documents,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// DocumentRequest is the open missing-documents request raised by a reviewer.
type DocumentRequest struct {
	Reason      string    `json:"reason"`
	Categories  []string  `json:"categories"`
	RequestedAt time.Time `json:"requested_at"`
	RequestedBy string    `json:"requested_by"`
}

// DocumentRequest returns the open request, or nil when none is open.
func (a *Application) DocumentRequest() *DocumentRequest {
	if a.DocumentRequestReason == nil || a.DocumentRequestedAt == nil {
		return nil
	}
	request := &DocumentRequest{
		Reason:      *a.DocumentRequestReason,
		RequestedAt: *a.DocumentRequestedAt,
	}
	if a.DocumentRequestedBy != nil {
		request.RequestedBy = *a.DocumentRequestedBy
	}
	if a.RequestedDocumentsJSON != nil {
		_ = json.Unmarshal([]byte(*a.RequestedDocumentsJSON), &request.Categories)
	}
	return request
}

// SetDocumentRequest records a new request, superseding any prior one.
func (a *Application) SetDocumentRequest(request DocumentRequest) {
	raw, _ := json.Marshal(request.Categories)
	categories := string(raw)
	a.DocumentRequestReason = &request.Reason
	a.RequestedDocumentsJSON = &categories
	a.DocumentRequestedAt = &request.RequestedAt
	a.DocumentRequestedBy = &request.RequestedBy
}

// ClearDocumentRequest removes the open request, e.g. once the student
// resubmits.
func (a *Application) ClearDocumentRequest() {
	a.DocumentRequestReason = nil
	a.RequestedDocumentsJSON = nil
	a.DocumentRequestedAt = nil
	a.DocumentRequestedBy = nil
}

// MarshalJSON exposes the requested document categories as a list instead of
// the raw column.
func (a Application) MarshalJSON() ([]byte, error) {
	type alias Application
	var categories []string
	if request := a.DocumentRequest(); request != nil {
		categories = request.Categories
	}
	return json.Marshal(struct {
		alias
		RequestedDocuments []string `json:"requested_documents,omitempty"`
	}{
		alias:              alias(a),
		RequestedDocuments: categories,
	})
}

// ReviewSubmitted reports whether the attached evaluation has been finalized.
func (a *Application) ReviewSubmitted() bool {
	return a.Review != nil && a.Review.Status == ReviewStatusSubmitted
}

// ApplicationStatusHistory tracks every status change for an application.
type ApplicationStatusHistory struct {
	HistoryID     int               `gorm:"primaryKey;column:history_id" json:"history_id"`
	ApplicationID int               `gorm:"column:application_id" json:"application_id"`
	OldStatus     ApplicationStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus     ApplicationStatus `gorm:"column:new_status" json:"new_status"`
	ChangedBy     int               `gorm:"column:changed_by" json:"changed_by"`
	Reason        *string           `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt     time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (ApplicationStatusHistory) TableName() string {
	return "application_status_history"
}
