package services

import (
	"testing"
	"time"

	"scholarship-portal-api/models"
)

func reviewerPtr(name string) *string { return &name }

func TestCountByStatus(t *testing.T) {
	applications := []models.Application{
		{Status: models.AppStatusSubmitted},
		{Status: models.AppStatusUnderReview},
		{Status: models.AppStatusUnderReview},
		{Status: models.AppStatusAwarded},
	}

	counts := CountByStatus(applications)
	if counts[models.AppStatusUnderReview] != 2 {
		t.Errorf("expected 2 under review, got %d", counts[models.AppStatusUnderReview])
	}
	if counts[models.AppStatusSubmitted] != 1 || counts[models.AppStatusAwarded] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if counts[models.AppStatusRejected] != 0 {
		t.Errorf("absent status should count 0, got %d", counts[models.AppStatusRejected])
	}
}

func TestAssignedTo(t *testing.T) {
	applications := []models.Application{
		{ApplicationID: 1, AssignedReviewer: reviewerPtr("Dr. Maya Lewis")},
		{ApplicationID: 2, AssignedReviewer: reviewerPtr("Prof. James Okafor")},
		{ApplicationID: 3},
		{ApplicationID: 4, AssignedReviewer: reviewerPtr("Dr. Maya Lewis")},
	}

	assigned := AssignedTo(applications, "Dr. Maya Lewis")
	if len(assigned) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assigned))
	}
	if assigned[0].ApplicationID != 1 || assigned[1].ApplicationID != 4 {
		t.Errorf("unexpected assignments: %v", assigned)
	}
}

func TestPendingDecisions(t *testing.T) {
	applications := []models.Application{
		{ApplicationID: 1, Status: models.AppStatusUnderReview,
			Review: &models.ReviewEvaluation{Status: models.ReviewStatusSubmitted}},
		{ApplicationID: 2, Status: models.AppStatusUnderReview,
			Review: &models.ReviewEvaluation{Status: models.ReviewStatusPending}},
		{ApplicationID: 3, Status: models.AppStatusUnderReview},
		{ApplicationID: 4, Status: models.AppStatusAwarded,
			Review: &models.ReviewEvaluation{Status: models.ReviewStatusSubmitted}},
	}

	pending := PendingDecisions(applications)
	if len(pending) != 1 || pending[0].ApplicationID != 1 {
		t.Fatalf("expected only application 1 pending, got %v", pending)
	}
}

func TestAverageOverallScore(t *testing.T) {
	applications := []models.Application{
		{Review: &models.ReviewEvaluation{Status: models.ReviewStatusSubmitted, OverallScore: 8.7}},
		{Review: &models.ReviewEvaluation{Status: models.ReviewStatusSubmitted, OverallScore: 6.2}},
		{Review: &models.ReviewEvaluation{Status: models.ReviewStatusPending, OverallScore: 9.9}},
		{},
	}

	if got := AverageOverallScore(applications); got != 7.5 {
		t.Errorf("expected 7.5, got %v", got)
	}
	if got := AverageOverallScore(nil); got != 0 {
		t.Errorf("no applications should average 0, got %v", got)
	}
}

func TestNextDeadline(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -5)
	soon := now.AddDate(0, 0, 10)
	later := now.AddDate(0, 1, 0)

	scholarships := []models.Scholarship{
		{Name: "Closed", Deadline: &past},
		{Name: "Open-ended"},
		{Name: "Later", Deadline: &later},
		{Name: "Soon", Deadline: &soon},
	}

	deadline, days, ok := NextDeadline(scholarships, now)
	if !ok {
		t.Fatal("expected a next deadline")
	}
	if !deadline.Equal(soon) {
		t.Errorf("expected %v, got %v", soon, deadline)
	}
	if days != 10 {
		t.Errorf("expected 10 days, got %d", days)
	}

	if _, _, ok := NextDeadline([]models.Scholarship{{Name: "Closed", Deadline: &past}, {Name: "Open-ended"}}, now); ok {
		t.Error("closed and open-ended listings should yield no deadline")
	}
}

func TestOpenScholarships(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	scholarships := []models.Scholarship{
		{Name: "Closed", Deadline: &past},
		{Name: "Open", Deadline: &future},
		{Name: "Open-ended"},
	}

	open := OpenScholarships(scholarships, now)
	if len(open) != 2 {
		t.Fatalf("expected 2 open scholarships, got %d", len(open))
	}
	if open[0].Name != "Open" || open[1].Name != "Open-ended" {
		t.Errorf("unexpected open set: %v", open)
	}
}
