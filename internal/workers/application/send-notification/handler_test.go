// internal/workers/application/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support-workers/internal/common/logger"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	Calls         []*ses.SendEmailInput
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.Calls = append(m.Calls, params)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{}, nil
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	Calls       []*sns.PublishInput
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.Calls = append(m.Calls, params)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{}, nil
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@socialsupport.gov",
		AWSRegion:    "me-central-1",
		Timeout:      30 * time.Second,
	}
}

func createTestHandler(cfg *Config, sesMock *MockSESService, snsMock *MockSNSService) *Handler {
	return &Handler{
		config:    cfg,
		logger:    logger.NewNop(),
		sesClient: sesMock,
		snsClient: snsMock,
	}
}

func approvedInput() *Input {
	return &Input{
		ApplicationID:  "app-001",
		RecipientEmail: "applicant@example.com",
		RecipientPhone: "+971500000001",
		IsEligible:     true,
		RiskLevel:      "low",
	}
}

func rejectedInput() *Input {
	return &Input{
		ApplicationID:  "app-002",
		RecipientEmail: "applicant@example.com",
		RecipientPhone: "+971500000001",
		IsEligible:     false,
		RiskLevel:      "high",
		Reasons:        []string{"Income below threshold", "High debt-to-income ratio"},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_ApprovedSendsEmailOnly(t *testing.T) {
	sesMock := &MockSESService{}
	snsMock := &MockSNSService{}
	handler := createTestHandler(createTestConfig(), sesMock, snsMock)

	output, err := handler.Execute(context.Background(), approvedInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Len(t, sesMock.Calls, 1)
	assert.Empty(t, snsMock.Calls, "approvals do not trigger SMS")
	assert.Contains(t, *sesMock.Calls[0].Message.Subject.Data, "Approved")
}

func TestExecute_RejectedSendsEmailAndSMS(t *testing.T) {
	sesMock := &MockSESService{}
	snsMock := &MockSNSService{}
	handler := createTestHandler(createTestConfig(), sesMock, snsMock)

	output, err := handler.Execute(context.Background(), rejectedInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Len(t, sesMock.Calls, 1)
	assert.Len(t, snsMock.Calls, 1)

	body := *sesMock.Calls[0].Message.Body.Text.Data
	assert.Contains(t, body, "Income below threshold")
	assert.Contains(t, body, "appeal")
}

func TestExecute_NoContactInfo(t *testing.T) {
	sesMock := &MockSESService{}
	snsMock := &MockSNSService{}
	handler := createTestHandler(createTestConfig(), sesMock, snsMock)

	input := approvedInput()
	input.RecipientEmail = ""
	input.RecipientPhone = ""

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, sesMock.Calls)
	assert.Empty(t, snsMock.Calls)
}

func TestExecute_ChannelsDisabled(t *testing.T) {
	sesMock := &MockSESService{}
	snsMock := &MockSNSService{}
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	handler := createTestHandler(cfg, sesMock, snsMock)

	output, err := handler.Execute(context.Background(), rejectedInput())
	require.NoError(t, err)

	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, sesMock.Calls)
	assert.Empty(t, snsMock.Calls)
}

// ==========================
// Error Handling Tests
// ==========================

func TestExecute_EmailFailureReportsFailedStatus(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("ses throttled")
		},
	}
	handler := createTestHandler(createTestConfig(), sesMock, &MockSNSService{})

	output, err := handler.Execute(context.Background(), approvedInput())
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, output.Status)
	assert.NotEmpty(t, output.NotificationID)
}

func TestExecute_SMSFailureReportsFailedStatus(t *testing.T) {
	snsMock := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("sns unavailable")
		},
	}
	handler := createTestHandler(createTestConfig(), &MockSESService{}, snsMock)

	output, err := handler.Execute(context.Background(), rejectedInput())
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, output.Status)
}

func TestDecisionMessage_Rejected(t *testing.T) {
	subject, body := decisionMessage(rejectedInput())

	assert.Equal(t, "Social Support Application Decision", subject)
	assert.Contains(t, body, "app-002")
	assert.Contains(t, body, "Income below threshold; High debt-to-income ratio")
}

func TestDecisionMessage_Approved(t *testing.T) {
	subject, body := decisionMessage(approvedInput())

	assert.Contains(t, subject, "Approved")
	assert.Contains(t, body, "app-001")
}
