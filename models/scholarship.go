package models

import (
	"encoding/json"
	"time"
)

// Scholarship is the catalog entry applications reference. Criteria holds the
// ordered rubric labels reviewers score against, serialized as JSON.
type Scholarship struct {
	ScholarshipID int        `gorm:"primaryKey;column:scholarship_id" json:"scholarship_id"`
	Name          string     `gorm:"column:name" json:"name"`
	Amount        string     `gorm:"column:amount" json:"amount"`
	Deadline      *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	Description   string     `gorm:"column:description" json:"description"`
	CriteriaJSON  string     `gorm:"column:criteria_json" json:"-"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Scholarship) TableName() string {
	return "scholarships"
}

// Criteria decodes the rubric labels. A broken or empty column decodes to an
// empty rubric rather than an error; the editor endpoints only ever write
// valid JSON.
func (s *Scholarship) Criteria() []string {
	if s.CriteriaJSON == "" {
		return nil
	}
	var criteria []string
	if err := json.Unmarshal([]byte(s.CriteriaJSON), &criteria); err != nil {
		return nil
	}
	return criteria
}

func (s *Scholarship) SetCriteria(criteria []string) {
	if criteria == nil {
		criteria = []string{}
	}
	raw, _ := json.Marshal(criteria)
	s.CriteriaJSON = string(raw)
}

// DeadlinePassed reports whether the scholarship can no longer be applied to.
// A nil deadline means the listing is open-ended.
func (s *Scholarship) DeadlinePassed(now time.Time) bool {
	if s.Deadline == nil {
		return false
	}
	return s.Deadline.Before(now)
}

// MarshalJSON exposes criteria as a list instead of the raw column.
func (s Scholarship) MarshalJSON() ([]byte, error) {
	type alias Scholarship
	return json.Marshal(struct {
		alias
		Criteria []string `json:"criteria"`
	}{
		alias:    alias(s),
		Criteria: s.Criteria(),
	})
}
