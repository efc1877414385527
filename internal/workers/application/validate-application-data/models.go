// internal/workers/application/validate-application-data/models.go
package validateapplicationdata

import "social-support-workers/internal/common/validation"

type Input struct {
	ApplicationID   string                 `json:"applicationId"`
	ApplicationData map[string]interface{} `json:"applicationData"`
}

type Output struct {
	ApplicationID    string                       `json:"applicationId"`
	IsValid          bool                         `json:"isValid"`
	ValidationStatus string                       `json:"validationStatus"`
	Errors           []validation.ValidationError `json:"errors,omitempty"`
}
