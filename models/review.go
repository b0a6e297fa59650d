package models

import (
	"encoding/json"
	"time"
)

// ReviewStatus is the lifecycle state of a rubric evaluation.
type ReviewStatus string

const (
	ReviewStatusPending   ReviewStatus = "Pending"
	ReviewStatusSubmitted ReviewStatus = "Submitted"
)

// ReviewScore is one rubric criterion's score. Zero means not yet entered and
// never survives submission.
type ReviewScore struct {
	Criteria string `json:"criteria"`
	Score    int    `json:"score"`
}

// ReviewEvaluation is the single rubric evaluation owned by one application.
type ReviewEvaluation struct {
	ReviewID      int          `gorm:"primaryKey;column:review_id" json:"review_id"`
	ApplicationID int          `gorm:"column:application_id;unique" json:"application_id"`
	ReviewerID    int          `gorm:"column:reviewer_id" json:"reviewer_id"`
	ReviewerName  string       `gorm:"column:reviewer_name" json:"reviewer_name"`
	Status        ReviewStatus `gorm:"column:status" json:"status"`
	ScoresJSON    string       `gorm:"column:scores_json" json:"-"`
	OverallScore  float64      `gorm:"column:overall_score" json:"overall_score"`
	Comments      string       `gorm:"column:comments" json:"comments"`
	SubmittedAt   *time.Time   `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	UpdatedAt     *time.Time   `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (ReviewEvaluation) TableName() string {
	return "review_evaluations"
}

// Scores decodes the per-criterion entries.
func (r *ReviewEvaluation) Scores() []ReviewScore {
	if r.ScoresJSON == "" {
		return nil
	}
	var scores []ReviewScore
	if err := json.Unmarshal([]byte(r.ScoresJSON), &scores); err != nil {
		return nil
	}
	return scores
}

func (r *ReviewEvaluation) SetScores(scores []ReviewScore) {
	if scores == nil {
		scores = []ReviewScore{}
	}
	raw, _ := json.Marshal(scores)
	r.ScoresJSON = string(raw)
}

// MarshalJSON exposes scores as a list instead of the raw column.
func (r ReviewEvaluation) MarshalJSON() ([]byte, error) {
	type alias ReviewEvaluation
	return json.Marshal(struct {
		alias
		Scores []ReviewScore `json:"scores"`
	}{
		alias:  alias(r),
		Scores: r.Scores(),
	})
}
