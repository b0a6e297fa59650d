package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"scholarship-portal-api/models"
)

var (
	ErrScoreOutOfRange  = errors.New("score must be between 0 and 10")
	ErrUnknownCriterion = errors.New("criterion is not part of the scholarship rubric")
	ErrIncompleteScores = errors.New("every criterion needs a score between 1 and 10 before submission")
)

// NewReviewDraft builds the working evaluation for the owning scholarship's
// rubric. Each criterion keeps its previously persisted score or starts at 0
// (unscored); the reviewer name falls back to the acting reviewer.
func NewReviewDraft(criteria []string, existing *models.ReviewEvaluation, reviewerID int, reviewerName string) models.ReviewEvaluation {
	draft := models.ReviewEvaluation{
		ReviewerID:   reviewerID,
		ReviewerName: reviewerName,
		Status:       models.ReviewStatusPending,
	}

	var prior map[string]int
	if existing != nil {
		draft = *existing
		prior = make(map[string]int)
		for _, score := range existing.Scores() {
			prior[score.Criteria] = score.Score
		}
		if existing.ReviewerName != "" {
			draft.ReviewerName = existing.ReviewerName
		} else {
			draft.ReviewerName = reviewerName
		}
	}

	scores := make([]models.ReviewScore, 0, len(criteria))
	for _, criterion := range criteria {
		score := models.ReviewScore{Criteria: criterion}
		if prior != nil {
			score.Score = prior[criterion]
		}
		scores = append(scores, score)
	}
	draft.SetScores(scores)
	return draft
}

// ReviewEditable is the edit-lock gate: a draft may be mutated only while the
// owning application is not terminal and the review is still Pending. There
// is no unsubmit.
func ReviewEditable(application *models.Application, review *models.ReviewEvaluation) bool {
	if application.Status.IsTerminal() {
		return false
	}
	return review == nil || review.Status == models.ReviewStatusPending
}

// UpdateScore replaces the score for one criterion without touching the
// others. Zero is the unscored placeholder and stays legal while drafting.
func UpdateScore(application *models.Application, review *models.ReviewEvaluation, criterion string, score int, now time.Time) error {
	if !ReviewEditable(application, review) {
		return ErrReviewLocked
	}
	if score < 0 || score > 10 {
		return ErrScoreOutOfRange
	}

	scores := review.Scores()
	for i := range scores {
		if scores[i].Criteria == criterion {
			scores[i].Score = score
			review.SetScores(scores)
			review.UpdatedAt = &now
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCriterion, criterion)
}

// UpdateComments replaces the free-form comments while the draft is editable.
func UpdateComments(application *models.Application, review *models.ReviewEvaluation, comments string, now time.Time) error {
	if !ReviewEditable(application, review) {
		return ErrReviewLocked
	}
	review.Comments = comments
	review.UpdatedAt = &now
	return nil
}

// OverallScore is the arithmetic mean of the non-zero scores, rounded to one
// decimal place. A draft with no entered scores yields 0, never NaN.
func OverallScore(scores []models.ReviewScore) float64 {
	var sum, count int
	for _, score := range scores {
		if score.Score > 0 {
			sum += score.Score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}

// SubmitReview finalizes the draft. Every criterion must carry a score in
// [1,10]; on success the evaluation locks, the overall score is stamped and
// submitted_at keeps its first-submission value.
func SubmitReview(application *models.Application, review *models.ReviewEvaluation, now time.Time) error {
	if application.Status.IsTerminal() {
		return ErrApplicationTerminal
	}
	if !ReviewEditable(application, review) {
		return ErrReviewLocked
	}

	scores := review.Scores()
	if len(scores) == 0 {
		return ErrIncompleteScores
	}
	for _, score := range scores {
		if score.Score < 1 || score.Score > 10 {
			return ErrIncompleteScores
		}
	}

	review.OverallScore = OverallScore(scores)
	review.Status = models.ReviewStatusSubmitted
	if review.SubmittedAt == nil {
		review.SubmittedAt = &now
	}
	review.UpdatedAt = &now
	return nil
}
