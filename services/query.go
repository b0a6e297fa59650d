package services

import (
	"math"
	"time"

	"scholarship-portal-api/models"
)

// Pure read-side helpers backing the role dashboards. They take the canonical
// records and compute the derived numbers the views show, so they stay
// testable without a database.

// CountByStatus tallies applications per lifecycle state.
func CountByStatus(applications []models.Application) map[models.ApplicationStatus]int {
	counts := make(map[models.ApplicationStatus]int, len(applications))
	for _, application := range applications {
		counts[application.Status]++
	}
	return counts
}

// AssignedTo filters the applications assigned to one reviewer by display
// name.
func AssignedTo(applications []models.Application, reviewerName string) []models.Application {
	var assigned []models.Application
	for _, application := range applications {
		if application.AssignedReviewer != nil && *application.AssignedReviewer == reviewerName {
			assigned = append(assigned, application)
		}
	}
	return assigned
}

// PendingDecisions returns the applications a committee can act on: under
// review with a submitted evaluation.
func PendingDecisions(applications []models.Application) []models.Application {
	var pending []models.Application
	for _, application := range applications {
		if application.Status == models.AppStatusUnderReview && application.ReviewSubmitted() {
			pending = append(pending, application)
		}
	}
	return pending
}

// AverageOverallScore is the mean of submitted overall scores across the
// given applications, rounded to one decimal place; 0 when none exist.
func AverageOverallScore(applications []models.Application) float64 {
	var sum float64
	var count int
	for _, application := range applications {
		if application.ReviewSubmitted() {
			sum += application.Review.OverallScore
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Round(sum/float64(count)*10) / 10
}

// NextDeadline returns the earliest future deadline among open scholarships
// and the number of whole days until it. ok is false when every listing is
// open-ended or already closed.
func NextDeadline(scholarships []models.Scholarship, now time.Time) (deadline time.Time, days int, ok bool) {
	for _, scholarship := range scholarships {
		if scholarship.Deadline == nil || scholarship.Deadline.Before(now) {
			continue
		}
		if !ok || scholarship.Deadline.Before(deadline) {
			deadline = *scholarship.Deadline
			ok = true
		}
	}
	if !ok {
		return time.Time{}, 0, false
	}
	days = int(deadline.Sub(now).Hours() / 24)
	return deadline, days, true
}

// OpenScholarships filters listings still accepting applications.
func OpenScholarships(scholarships []models.Scholarship, now time.Time) []models.Scholarship {
	var open []models.Scholarship
	for _, scholarship := range scholarships {
		if !scholarship.DeadlinePassed(now) {
			open = append(open, scholarship)
		}
	}
	return open
}
