// internal/workers/application/send-notification/models.go
package sendnotification

type Input struct {
	ApplicationID  string                 `json:"applicationId"`
	RecipientEmail string                 `json:"recipientEmail,omitempty"`
	RecipientPhone string                 `json:"recipientPhone,omitempty"`
	IsEligible     bool                   `json:"isEligible"`
	RiskLevel      string                 `json:"riskLevel"`
	Reasons        []string               `json:"reasons,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
