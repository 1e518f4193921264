// Package api holds the HTTP-facing envelope and request/response shapes
// the handlers package serializes, kept separate from the types package so the
// wire format can evolve independently of the domain model.
package api

import "time"

// Response is the canonical envelope every handler writes: success payloads
// set Data, failures set Error, never both.
type Response struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	RequestID string     `json:"request_id,omitempty"`
}

// ErrorInfo is the wire shape of a types.Error.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// ProcessQuestionRequest is the body of POST /v1/questions.
type ProcessQuestionRequest struct {
	QueryText string `json:"query_text"`
	UserID    string `json:"user_id,omitempty"`
}

// QuestionListResponse is the body of GET /v1/questions.
type QuestionListResponse struct {
	Questions []QuestionSummary `json:"questions"`
	Offset    int               `json:"offset"`
	Limit     int               `json:"limit"`
}

// QuestionSummary is the list-view projection of a types.Question.
type QuestionSummary struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	UserID    string    `json:"user_id,omitempty"`
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}
