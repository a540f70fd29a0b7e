// Package scoring implements the GAD-7 and PHQ-9 self-assessment scorers.
//
// Both instruments work the same way: a fixed number of questions, each
// answered on a 0–3 scale, summed into a total that falls into a severity
// band. Score is a pure function — no state, no I/O — so it is safe to call
// from any number of goroutines.
//
// The category messages are informational only. They are not clinical
// advice and the API never presents them as such.
package scoring

import (
	"fmt"

	"github.com/uvg/wellness-backend/internal/apperror"
	"github.com/uvg/wellness-backend/internal/model"
)

// Type identifies which questionnaire an answer vector belongs to.
type Type string

const (
	GAD7 Type = model.AssessmentTypeGAD7 // 7 questions, anxiety
	PHQ9 Type = model.AssessmentTypePHQ9 // 9 questions, depression
)

// Answers use the standard frequency scale shared by both instruments:
// 0 = not at all, 1 = several days, 2 = more than half the days,
// 3 = nearly every day.
const (
	MinAnswer = 0
	MaxAnswer = 3
)

// Result is the outcome of scoring one answer vector.
type Result struct {
	Total    int    `json:"total"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// band is one severity range. Bands are checked in order; the first band
// whose Max is >= the total wins, so only the upper bound is stored.
type band struct {
	max      int
	category string
	message  string
}

// instrument is a questionnaire definition: how many answers it takes and
// how totals map to severity bands.
type instrument struct {
	questions int
	bands     []band
}

// Published threshold tables. GAD-7 totals range 0–21, PHQ-9 totals range
// 0–27; PHQ-9 has the extra "Moderately severe" band between 15 and 19.
var instruments = map[Type]instrument{
	GAD7: {
		questions: 7,
		bands: []band{
			{4, "Minimal", "Your responses suggest minimal anxiety symptoms."},
			{9, "Mild", "Your responses suggest mild anxiety symptoms."},
			{14, "Moderate", "Your responses suggest moderate anxiety symptoms. Talking to a health professional may help."},
			{21, "Severe", "Your responses suggest severe anxiety symptoms. Consider reaching out to a health professional."},
		},
	},
	PHQ9: {
		questions: 9,
		bands: []band{
			{4, "Minimal", "Your responses suggest minimal depression symptoms."},
			{9, "Mild", "Your responses suggest mild depression symptoms."},
			{14, "Moderate", "Your responses suggest moderate depression symptoms. Talking to a health professional may help."},
			{19, "Moderately severe", "Your responses suggest moderately severe depression symptoms. Consider reaching out to a health professional."},
			{27, "Severe", "Your responses suggest severe depression symptoms. Consider reaching out to a health professional."},
		},
	},
}

// Questions returns the number of answers the given instrument expects,
// or 0 for an unknown type.
func Questions(t Type) int {
	return instruments[t].questions
}

// Score validates an answer vector and maps it to a total and severity
// category. It returns a validation error when the instrument type is
// unknown, the vector has the wrong length, or any element falls outside
// [MinAnswer, MaxAnswer].
func Score(t Type, answers []int) (Result, error) {
	inst, ok := instruments[t]
	if !ok {
		return Result{}, apperror.ValidationFailed("type",
			fmt.Sprintf("unknown assessment type %q", string(t)))
	}

	if len(answers) != inst.questions {
		return Result{}, apperror.ValidationFailed("answers",
			fmt.Sprintf("%s requires exactly %d answers, got %d", t, inst.questions, len(answers)))
	}

	total := 0
	for i, a := range answers {
		if a < MinAnswer || a > MaxAnswer {
			return Result{}, apperror.ValidationFailed("answers",
				fmt.Sprintf("answer %d is %d, must be between %d and %d", i+1, a, MinAnswer, MaxAnswer))
		}
		total += a
	}

	for _, b := range inst.bands {
		if total <= b.max {
			return Result{
				Total:    total,
				Category: b.category,
				Message:  b.message,
			}, nil
		}
	}

	// Unreachable: the last band's max equals questions*MaxAnswer.
	return Result{}, fmt.Errorf("scoring: total %d exceeds %s range", total, t)
}
