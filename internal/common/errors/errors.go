// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Assessment pipeline errors
	ErrCodeInputInvalid         ErrorCode = "INPUT_INVALID"
	ErrCodeConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"
	ErrCodeModelUnavailable     ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodeAssessmentFailed     ErrorCode = "ASSESSMENT_FAILED"
	ErrCodeValidationFailed     ErrorCode = "APPLICATION_VALIDATION_FAILED"

	// Persistence errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateAssessment      ErrorCode = "DUPLICATE_ASSESSMENT"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	// Search errors
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	// Notification errors
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	// Generic
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ConvertToBPMNError maps a StandardError onto the workflow error shape.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:           string(err.Code),
		Message:        err.Message,
		Details:        err.Details,
		Retryable:      err.Retryable,
		Retries:        GetRetryCount(err.Code),
		ErrorVariables: err.Metadata,
	}
}

// GetRetryCount returns how many times a failed job with this code should
// be retried before the error is thrown to the workflow.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeNotificationSendFailed,
		ErrCodeTimeout,
		ErrCodeExternalService:
		return 3
	default:
		return 0
	}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInputError marks a malformed applicant record; the workflow routes
// these back to the applicant, so they are never retried.
func NewInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputInvalid,
		Message:   "Applicant record is missing required fields",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationError marks invalid threshold configuration. Raised at
// startup only.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationInvalid,
		Message:   "Invalid eligibility configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentFailedError wraps unexpected scoring failures.
func NewAssessmentFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentFailed,
		Message:   "Eligibility assessment failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError marks an application that failed field validation.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertError marks a failed write; retried with backoff.
func NewDatabaseInsertError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Failed to store assessment record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryError marks a failed assessment search.
func NewSearchQueryError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Assessment search failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendError marks a failed decision notification.
func NewNotificationSendError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send decision notification",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError marks an operation that ran out of time.
func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Operation against %s timed out", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError marks a failure in a downstream dependency.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service %s failed", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
