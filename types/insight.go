package types

import (
	"time"
	"unicode/utf8"
)

// InsightCategory is the closed set of Insight categories. It is
// deliberately a distinct type from IntentTag, so an intent tag (e.g.
// "general_analysis") can never leak into the category field unnoticed.
type InsightCategory string

const (
	InsightTrend          InsightCategory = "trend"
	InsightAnomaly        InsightCategory = "anomaly"
	InsightRecommendation InsightCategory = "recommendation"
	InsightPrediction     InsightCategory = "prediction"
	InsightCorrelation    InsightCategory = "correlation"
	InsightSummary        InsightCategory = "summary"
)

var ValidInsightCategories = map[InsightCategory]bool{
	InsightTrend: true, InsightAnomaly: true, InsightRecommendation: true,
	InsightPrediction: true, InsightCorrelation: true, InsightSummary: true,
}

const (
	InsightTitleMaxLen       = 200
	InsightDescriptionMaxLen = 2000
	InsightMaxActionItems    = 10
	InsightMaxDataEvidence   = 10
)

// Insight is one atomic finding attached to a Question.
type Insight struct {
	ID           int64           `json:"id,omitempty"`
	QuestionID   int64           `json:"question_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     InsightCategory `json:"category"`
	Confidence   float64         `json:"confidence_score"`
	ActionItems  []string        `json:"action_items"`
	DataEvidence []string        `json:"data_evidence"`
	DataSources  []DataSourceTag `json:"data_sources,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Validate enforces the Insight entity contract, including field length
// bounds and the closed category set — Category must be a genuine
// InsightCategory, never an IntentTag value smuggled through.
func (in Insight) Validate() *Error {
	if in.Title == "" {
		return NewError(ErrCodeValidation, "insight: title must be non-empty")
	}
	if utf8.RuneCountInString(in.Title) > InsightTitleMaxLen {
		return NewError(ErrCodeValidation, "insight: title exceeds 200 characters")
	}
	if in.Description == "" {
		return NewError(ErrCodeValidation, "insight: description must be non-empty")
	}
	if utf8.RuneCountInString(in.Description) > InsightDescriptionMaxLen {
		return NewError(ErrCodeValidation, "insight: description exceeds 2000 characters")
	}
	if !ValidInsightCategories[in.Category] {
		return NewError(ErrCodeValidation, "insight: category is not in the closed set")
	}
	if in.Confidence < 0.0 || in.Confidence > 1.0 {
		return NewError(ErrCodeValidation, "insight: confidence_score out of [0,1]")
	}
	if len(in.ActionItems) > InsightMaxActionItems {
		return NewError(ErrCodeValidation, "insight: more than 10 action items")
	}
	if len(in.DataEvidence) > InsightMaxDataEvidence {
		return NewError(ErrCodeValidation, "insight: more than 10 data evidence entries")
	}
	return nil
}

// ValidateInsightSet enforces that a question carries 1 to 3 insights.
func ValidateInsightSet(insights []Insight) *Error {
	if len(insights) < 1 || len(insights) > 3 {
		return NewError(ErrCodeValidation, "question must have between 1 and 3 insights")
	}
	for _, in := range insights {
		if err := in.Validate(); err != nil {
			return err
		}
	}
	return nil
}
