package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/api"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

// Response and ErrorInfo are aliases for the canonical api package shapes,
// kept here so handler files don't need to import both packages.
type Response = api.Response
type ErrorInfo = api.ErrorInfo

// WriteJSON writes status and data as a JSON body with the standard headers.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 success envelope.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

// WriteError writes a failure envelope, mapping err.Code to an HTTP status.
func WriteError(w http.ResponseWriter, err *types.Error, logger *zap.Logger) {
	status := mapErrorCodeToHTTPStatus(err.Code)

	if logger != nil {
		logger.Error("api error",
			zap.String("code", string(err.Code)),
			zap.String("message", err.Message),
			zap.Int("status", status),
			zap.Error(err.Cause),
		)
	}

	WriteJSON(w, status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      string(err.Code),
			Message:   err.Message,
			Retryable: isRetryable(err.Code),
		},
		Timestamp: time.Now(),
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

// WriteErrorMessage writes a failure envelope built from scratch, for
// handler-local validation that never produced a *types.Error.
func WriteErrorMessage(w http.ResponseWriter, status int, code types.ErrorCode, message string, logger *zap.Logger) {
	if logger != nil {
		logger.Warn("api error", zap.String("code", string(code)), zap.String("message", message))
	}
	WriteJSON(w, status, Response{
		Success:   false,
		Error:     &ErrorInfo{Code: string(code), Message: message, Retryable: isRetryable(code)},
		Timestamp: time.Now(),
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

func mapErrorCodeToHTTPStatus(code types.ErrorCode) int {
	switch code {
	case types.ErrCodeValidation:
		return http.StatusBadRequest
	case types.ErrCodeTimeout, types.ErrCodeCancelled:
		return http.StatusGatewayTimeout
	case types.ErrCodeLLMUnavailable, types.ErrCodeLLMSchema,
		types.ErrCodeWarehouseUnavailable, types.ErrCodeMetadataUnavailable,
		types.ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isRetryable(code types.ErrorCode) bool {
	switch code {
	case types.ErrCodeTimeout, types.ErrCodeLLMUnavailable, types.ErrCodeWarehouseUnavailable,
		types.ErrCodeMetadataUnavailable, types.ErrCodeCacheUnavailable:
		return true
	default:
		return false
	}
}

// DecodeJSONBody decodes r's body into dst, rejecting unknown fields and
// bodies over 1MB, and writes the error response itself on failure.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) error {
	if r.Body == nil {
		err := types.NewError(types.ErrCodeValidation, "request body is empty")
		WriteError(w, err, logger)
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		apiErr := types.NewError(types.ErrCodeValidation, "invalid JSON body").WithCause(err)
		WriteError(w, apiErr, logger)
		return apiErr
	}
	return nil
}

// ValidateContentType rejects requests whose Content-Type isn't
// application/json, using mime.ParseMediaType so parameters and casing
// variants (e.g. "application/json; charset=UTF-8") are accepted.
func ValidateContentType(w http.ResponseWriter, r *http.Request, logger *zap.Logger) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		WriteErrorMessage(w, http.StatusUnsupportedMediaType, types.ErrCodeValidation,
			"Content-Type must be application/json", logger)
		return false
	}
	return true
}
