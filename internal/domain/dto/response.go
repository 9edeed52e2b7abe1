package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeServiceUnavailable indicates the store is unreachable.
	ErrCodeServiceUnavailable = "service_unavailable"
	// ErrCodePayloadTooLarge indicates an oversized body or batch.
	ErrCodePayloadTooLarge = "payload_too_large"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"Invalid packaging configuration"`
	// Details maps field names to validation messages
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"trace-123"`
} // @name ErrorResponse

// CalculateResponse is the payload of a successful calculation.
// @Description Packaging plan with advisory analysis
type CalculateResponse struct {
	Result     model.CalculationResult `json:"result"`
	Analysis   model.Analysis          `json:"aiAnalysis"`
	SafetyGaps model.SafetyGaps        `json:"safetyGaps"`
	Language   string                  `json:"language" example:"en"`
	// HistoryID is omitted when the calculation could not be saved.
	HistoryID string `json:"historyId,omitempty" example:"0b8e4c1e-52a4-4e0f-9f55-1d5b0c8f9a10"`
} // @name CalculateResponse

// InventoryResponse lists the carton inventory.
type InventoryResponse struct {
	Items []model.BoxItem `json:"items"`
	Count int             `json:"count" example:"7"`
} // @name InventoryResponse

// UpsertInventoryResponse reports how many cartons were stored.
type UpsertInventoryResponse struct {
	Upserted int `json:"upserted" example:"2"`
} // @name UpsertInventoryResponse

// ImportInventoryResponse reports the outcome of a CSV import.
type ImportInventoryResponse struct {
	Imported int `json:"imported" example:"12"`
	Skipped  int `json:"skipped" example:"1"`
} // @name ImportInventoryResponse

// HistoryResponse lists saved calculations, newest first.
type HistoryResponse struct {
	Items []model.HistoryEntry `json:"items"`
	Count int                  `json:"count" example:"20"`
} // @name HistoryResponse

// ClearHistoryResponse reports how many saved calculations were removed.
type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted" example:"42"`
} // @name ClearHistoryResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetails adds field details to the error response.
func (e ErrorResponse) WithDetails(details map[string]string) ErrorResponse {
	e.Details = details
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusRequestEntityTooLarge:
		return ErrCodePayloadTooLarge
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInternal
	}
}
