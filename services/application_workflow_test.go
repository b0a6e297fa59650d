package services

import (
	"errors"
	"testing"
	"time"

	"scholarship-portal-api/models"
)

func testScholarship(deadline *time.Time) models.Scholarship {
	s := models.Scholarship{
		ScholarshipID: 1,
		Name:          "Global Merit Scholarship 2024",
		Amount:        "5000",
		Deadline:      deadline,
	}
	s.SetCriteria([]string{"Academic Excellence", "Financial Need", "Community Involvement"})
	return s
}

func TestNewApplicationSetsSubmittedState(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 1, 0)
	scholarship := testScholarship(&deadline)

	application, err := NewApplication(scholarship, nil, 42, now)
	if err != nil {
		t.Fatalf("NewApplication returned error: %v", err)
	}
	if application.Status != models.AppStatusSubmitted {
		t.Errorf("expected status %q, got %q", models.AppStatusSubmitted, application.Status)
	}
	if application.SubmissionDate == nil || !application.SubmissionDate.Equal(now) {
		t.Errorf("expected submission date %v, got %v", now, application.SubmissionDate)
	}
	if application.StudentID != 42 || application.ScholarshipID != 1 {
		t.Errorf("unexpected ownership: student=%d scholarship=%d", application.StudentID, application.ScholarshipID)
	}
}

func TestNewApplicationRejectsPastDeadline(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, -1)
	scholarship := testScholarship(&deadline)

	if _, err := NewApplication(scholarship, nil, 42, now); !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
}

func TestNewApplicationAllowsOpenEndedDeadline(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	scholarship := testScholarship(nil)

	if _, err := NewApplication(scholarship, nil, 42, now); err != nil {
		t.Fatalf("open-ended scholarship should accept applications, got %v", err)
	}
}

func TestNewApplicationRejectsDuplicate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	scholarship := testScholarship(nil)
	existing := []models.Application{
		{ApplicationID: 7, ScholarshipID: 1, StudentID: 42, Status: models.AppStatusSubmitted},
	}

	if _, err := NewApplication(scholarship, existing, 42, now); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}

	// Same scholarship, different student is fine.
	if _, err := NewApplication(scholarship, existing, 43, now); err != nil {
		t.Fatalf("different student should be allowed, got %v", err)
	}
}

func TestAssignReviewerMovesToUnderReview(t *testing.T) {
	now := time.Now()
	application := models.Application{Status: models.AppStatusSubmitted}

	if err := AssignReviewer(&application, "Dr. Maya Lewis", now); err != nil {
		t.Fatalf("AssignReviewer returned error: %v", err)
	}
	if application.Status != models.AppStatusUnderReview {
		t.Errorf("expected status %q, got %q", models.AppStatusUnderReview, application.Status)
	}
	if application.AssignedReviewer == nil || *application.AssignedReviewer != "Dr. Maya Lewis" {
		t.Errorf("expected reviewer Dr. Maya Lewis, got %v", application.AssignedReviewer)
	}
}

func TestAssignReviewerEmptyClearsWithoutTransition(t *testing.T) {
	now := time.Now()
	reviewer := "Dr. Maya Lewis"
	application := models.Application{Status: models.AppStatusUnderReview, AssignedReviewer: &reviewer}

	if err := AssignReviewer(&application, "  ", now); err != nil {
		t.Fatalf("clearing assignment returned error: %v", err)
	}
	if application.AssignedReviewer != nil {
		t.Errorf("expected assignment cleared, got %v", *application.AssignedReviewer)
	}
	if application.Status != models.AppStatusUnderReview {
		t.Errorf("clearing must not change status, got %q", application.Status)
	}
}

func TestAssignReviewerRejectsTerminal(t *testing.T) {
	now := time.Now()
	application := models.Application{Status: models.AppStatusAwarded}

	if err := AssignReviewer(&application, "Dr. Maya Lewis", now); !errors.Is(err, ErrApplicationTerminal) {
		t.Fatalf("expected ErrApplicationTerminal, got %v", err)
	}
}

func TestRequestDocumentsValidation(t *testing.T) {
	now := time.Now()

	application := models.Application{Status: models.AppStatusUnderReview}
	if err := RequestDocuments(&application, "Dr. Maya Lewis", []string{"Transcript"}, "  ", now); !errors.Is(err, ErrRequestReasonBlank) {
		t.Errorf("blank reason: expected ErrRequestReasonBlank, got %v", err)
	}
	if err := RequestDocuments(&application, "Dr. Maya Lewis", []string{" ", ""}, "illegible scan", now); !errors.Is(err, ErrRequestNoCategories) {
		t.Errorf("empty categories: expected ErrRequestNoCategories, got %v", err)
	}

	locked := models.Application{
		Status: models.AppStatusUnderReview,
		Review: &models.ReviewEvaluation{Status: models.ReviewStatusSubmitted},
	}
	if err := RequestDocuments(&locked, "Dr. Maya Lewis", []string{"Transcript"}, "illegible scan", now); !errors.Is(err, ErrReviewLocked) {
		t.Errorf("submitted review: expected ErrReviewLocked, got %v", err)
	}
}

func TestRequestDocumentsSupersedesPriorRequest(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	application := models.Application{Status: models.AppStatusUnderReview}

	if err := RequestDocuments(&application, "Dr. Maya Lewis", []string{"Transcript"}, "illegible scan", now); err != nil {
		t.Fatalf("first request returned error: %v", err)
	}
	if application.Status != models.AppStatusDocumentRequest {
		t.Fatalf("expected status %q, got %q", models.AppStatusDocumentRequest, application.Status)
	}

	later := now.Add(time.Hour)
	if err := RequestDocuments(&application, "Dr. Maya Lewis", []string{"Recommendation Letter", "Transcript"}, "both files missing pages", later); err != nil {
		t.Fatalf("superseding request returned error: %v", err)
	}

	request := application.DocumentRequest()
	if request == nil {
		t.Fatal("expected an open document request")
	}
	if request.Reason != "both files missing pages" {
		t.Errorf("expected superseding reason, got %q", request.Reason)
	}
	if len(request.Categories) != 2 {
		t.Errorf("expected 2 categories, got %v", request.Categories)
	}
	if !request.RequestedAt.Equal(later) {
		t.Errorf("expected requested_at %v, got %v", later, request.RequestedAt)
	}
}

func TestMarkResubmitted(t *testing.T) {
	now := time.Now()
	application := models.Application{Status: models.AppStatusUnderReview}
	if err := RequestDocuments(&application, "Dr. Maya Lewis", []string{"Transcript"}, "illegible scan", now); err != nil {
		t.Fatalf("RequestDocuments returned error: %v", err)
	}

	if err := MarkResubmitted(&application, 0, now); !errors.Is(err, ErrNoFilesSupplied) {
		t.Errorf("zero files: expected ErrNoFilesSupplied, got %v", err)
	}

	if err := MarkResubmitted(&application, 2, now); err != nil {
		t.Fatalf("MarkResubmitted returned error: %v", err)
	}
	if application.Status != models.AppStatusResubmitted {
		t.Errorf("expected status %q, got %q", models.AppStatusResubmitted, application.Status)
	}
	if application.DocumentRequest() != nil {
		t.Error("expected document request cleared after resubmission")
	}

	// Only Document Request applications can resubmit.
	if err := MarkResubmitted(&application, 1, now); !errors.Is(err, ErrNotDocumentRequest) {
		t.Errorf("expected ErrNotDocumentRequest, got %v", err)
	}
}

func TestDecideGuards(t *testing.T) {
	now := time.Now()

	notUnderReview := models.Application{Status: models.AppStatusSubmitted}
	if _, err := Decide(&notUnderReview, models.AppStatusAwarded, now); !errors.Is(err, ErrNotUnderReview) {
		t.Errorf("expected ErrNotUnderReview, got %v", err)
	}

	noReview := models.Application{Status: models.AppStatusUnderReview}
	if _, err := Decide(&noReview, models.AppStatusAwarded, now); !errors.Is(err, ErrReviewNotSubmitted) {
		t.Errorf("expected ErrReviewNotSubmitted, got %v", err)
	}

	ready := models.Application{
		Status: models.AppStatusUnderReview,
		Review: &models.ReviewEvaluation{Status: models.ReviewStatusSubmitted},
	}
	if _, err := Decide(&ready, models.AppStatusUnderReview, now); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestDecideIsIdempotentOnTerminal(t *testing.T) {
	now := time.Now()
	application := models.Application{
		Status: models.AppStatusUnderReview,
		Review: &models.ReviewEvaluation{Status: models.ReviewStatusSubmitted},
	}

	changed, err := Decide(&application, models.AppStatusAwarded, now)
	if err != nil || !changed {
		t.Fatalf("first decision: changed=%v err=%v", changed, err)
	}
	if application.Status != models.AppStatusAwarded {
		t.Fatalf("expected Awarded, got %q", application.Status)
	}

	// A second decision, even the opposite one, is a harmless no-op.
	changed, err = Decide(&application, models.AppStatusRejected, now)
	if err != nil {
		t.Fatalf("repeat decision returned error: %v", err)
	}
	if changed {
		t.Error("repeat decision must not report a change")
	}
	if application.Status != models.AppStatusAwarded {
		t.Errorf("repeat decision must not flip the status, got %q", application.Status)
	}
}

// Walks one application through the full lifecycle: submit, assign, request
// documents, resubmit, reassign, score, decide.
func TestWorkflowEndToEnd(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 2, 0)
	scholarship := testScholarship(&deadline)

	application, err := NewApplication(scholarship, nil, 42, now)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}

	if err := AssignReviewer(&application, "Dr. Maya Lewis", now.Add(time.Hour)); err != nil {
		t.Fatalf("AssignReviewer: %v", err)
	}

	if err := RequestDocuments(&application, "Dr. Maya Lewis", []string{"Transcript"}, "illegible scan", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("RequestDocuments: %v", err)
	}
	if err := MarkResubmitted(&application, 1, now.Add(3*time.Hour)); err != nil {
		t.Fatalf("MarkResubmitted: %v", err)
	}
	if err := AssignReviewer(&application, "Dr. Maya Lewis", now.Add(4*time.Hour)); err != nil {
		t.Fatalf("re-assign after resubmission: %v", err)
	}

	review := NewReviewDraft(scholarship.Criteria(), nil, 9, "Dr. Maya Lewis")
	for i, score := range []int{9, 8, 9} {
		if err := UpdateScore(&application, &review, scholarship.Criteria()[i], score, now.Add(5*time.Hour)); err != nil {
			t.Fatalf("UpdateScore %d: %v", i, err)
		}
	}
	if err := SubmitReview(&application, &review, now.Add(6*time.Hour)); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.OverallScore != 8.7 {
		t.Errorf("expected overall score 8.7, got %v", review.OverallScore)
	}
	application.Review = &review

	changed, err := Decide(&application, models.AppStatusAwarded, now.Add(7*time.Hour))
	if err != nil || !changed {
		t.Fatalf("Decide: changed=%v err=%v", changed, err)
	}
	if application.Status != models.AppStatusAwarded {
		t.Errorf("expected Awarded, got %q", application.Status)
	}

	// Terminal: further assignment is rejected and a repeat decision is a no-op.
	if err := AssignReviewer(&application, "Prof. James Okafor", now.Add(8*time.Hour)); !errors.Is(err, ErrApplicationTerminal) {
		t.Errorf("assignment after decision: expected ErrApplicationTerminal, got %v", err)
	}
	if changed, err := Decide(&application, models.AppStatusRejected, now.Add(8*time.Hour)); changed || err != nil {
		t.Errorf("decision after decision: expected no-op, got changed=%v err=%v", changed, err)
	}
}
