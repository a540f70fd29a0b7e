package model

import "time"

// Assessment type labels stored in the type column of assessment_results.
// The scoring package keys its instrument definitions on the same values.
const (
	AssessmentTypeGAD7 = "GAD7"
	AssessmentTypePHQ9 = "PHQ9"
)

// AssessmentResult is one completed questionnaire submission.
//
// Rows are write-once: a result is created when the questionnaire is scored
// and never updated afterwards. Total and Category are stored redundantly
// (Category is derivable from Total) so history listings don't have to
// re-run the scorer against whatever threshold table is current.
//
// UserID is optional — anonymous submissions are allowed, in which case it
// is the empty string. Notes and UserID keep their keys in JSON even when
// empty; history clients rely on a fixed item shape.
type AssessmentResult struct {
	ID        string    `json:"id"        db:"id"`
	Type      string    `json:"type"      db:"type"` // GAD7 or PHQ9
	Total     int       `json:"total"     db:"total"`
	Category  string    `json:"category"  db:"category"`
	Notes     string    `json:"notes"     db:"notes"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
