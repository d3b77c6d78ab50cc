package models

import (
	"errors"
	"net/http"
)

// ErrNotFound is returned by stores when the requested row does not exist
var ErrNotFound = errors.New("record not found")

// Text bodies exchanged with callers and the form provider
const (
	FormAlreadySubmitted = "Form Already Submitted"
	FormNotAvailable     = "Form Not available"
	CollectDataInitiated = "Collect Data Initiated"
	Success              = "SUCCESS"
	Failed               = "FAILED"

	ErrorResettingForm     = "Error occurred while resetting the form"
	ErrorProcessingRequest = "Error occurred while processing the request"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error codes
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeValidationError    = "VALIDATION_ERROR"
	ErrCodeInvalidJourneyType = "INVALID_JOURNEY_TYPE"
	ErrCodeSubjectNotFound    = "SUBJECT_NOT_FOUND"
	ErrCodePolicyNotAssigned  = "POLICY_NOT_ASSIGNED"
	ErrCodeNoActiveRecord     = "NO_ACTIVE_RECORD"
	ErrCodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	ErrCodeFormProviderError  = "FORM_PROVIDER_ERROR"
	ErrCodeTrackingStoreError = "TRACKING_STORE_ERROR"
)

// HTTPStatusForErrorCode returns the appropriate HTTP status code for an error code
func HTTPStatusForErrorCode(code string) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationError, ErrCodeInvalidJourneyType:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeSubjectNotFound, ErrCodePolicyNotAssigned:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeNoActiveRecord, ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeInternalError, ErrCodeFormProviderError, ErrCodeTrackingStoreError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
