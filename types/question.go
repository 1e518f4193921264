package types

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	QuestionTextMinLen = 3
	QuestionTextMaxLen = 2000
	UserTagMaxLen      = 255
)

// Question is the user's submission, persisted by the Query Repository.
// Text is immutable after creation; Response is non-empty iff Processed.
type Question struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	UserTag   string    `json:"user_id,omitempty"`
	Processed bool      `json:"processed"`
	Response  string    `json:"response,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateQuestionText enforces its length bounds, counted in characters
// rather than bytes: at least 3 after trimming, at most 2000 in the text as
// submitted.
func ValidateQuestionText(text string) *Error {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < QuestionTextMinLen {
		return NewError(ErrCodeValidation, "query_text must be at least 3 characters after trimming")
	}
	if utf8.RuneCountInString(text) > QuestionTextMaxLen {
		return NewError(ErrCodeValidation, "query_text must be at most 2000 characters")
	}
	return nil
}

// ValidateUserTag enforces the optional ≤255 char bound on the user tag.
func ValidateUserTag(tag string) *Error {
	if utf8.RuneCountInString(tag) > UserTagMaxLen {
		return NewError(ErrCodeValidation, "user_id must be at most 255 characters")
	}
	return nil
}
