// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// 1. BPMN Conversion Tests
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewDatabaseInsertError(errors.New("connection reset"))
	stdErr.Metadata = map[string]interface{}{"assessmentId": "a-1"}

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, string(ErrCodeDatabaseInsertFailed), bpmnErr.Code)
	assert.Equal(t, stdErr.Message, bpmnErr.Message)
	assert.Equal(t, "connection reset", bpmnErr.Details)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "a-1", bpmnErr.ErrorVariables["assessmentId"])
}

func TestConvertToBPMNError_NonRetryable(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewInputError("missing income"))

	assert.Equal(t, string(ErrCodeInputInvalid), bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := &BPMNError{
		Code:      "SEARCH_QUERY_FAILED",
		Message:   "Assessment search failed",
		Details:   "index missing",
		Retryable: false,
		ErrorVariables: map[string]interface{}{
			"indexName": "assessments",
		},
	}

	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "SEARCH_QUERY_FAILED", vars["errorCode"])
	assert.Equal(t, "Assessment search failed", vars["errorMessage"])
	assert.Equal(t, "index missing", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Equal(t, "assessments", vars["indexName"])
}

// ==========================
// 2. Retry Count Tests
// ==========================

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		retries int
	}{
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeDatabaseInsertFailed, 3},
		{ErrCodeQueryTimeout, 3},
		{ErrCodeSearchTimeout, 3},
		{ErrCodeNotificationSendFailed, 3},
		{ErrCodeTimeout, 3},
		{ErrCodeExternalService, 3},
		{ErrCodeInputInvalid, 0},
		{ErrCodeConfigurationInvalid, 0},
		{ErrCodeDuplicateAssessment, 0},
		{ErrCodeValidationFailed, 0},
		{ErrCodeSearchQueryFailed, 0},
		{ErrCodeInternal, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
		})
	}
}

// ==========================
// 3. Constructor Tests
// ==========================

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"input", NewInputError("missing family_size"), ErrCodeInputInvalid, false},
		{"configuration", NewConfigurationError("family size threshold must be positive"), ErrCodeConfigurationInvalid, false},
		{"assessment", NewAssessmentFailedError("scoring panic"), ErrCodeAssessmentFailed, false},
		{"validation", NewValidationFailedError("income out of range"), ErrCodeValidationFailed, false},
		{"database insert", NewDatabaseInsertError(errors.New("boom")), ErrCodeDatabaseInsertFailed, true},
		{"search query", NewSearchQueryError(errors.New("bad query")), ErrCodeSearchQueryFailed, false},
		{"notification", NewNotificationSendError(errors.New("ses throttled")), ErrCodeNotificationSendFailed, true},
		{"timeout", NewTimeoutError("postgres", errors.New("deadline exceeded")), ErrCodeTimeout, true},
		{"external service", NewExternalServiceError("zeebe", errors.New("unavailable")), ErrCodeExternalService, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.NotEmpty(t, tt.err.Message)
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}
