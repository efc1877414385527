// internal/workers/application/generate-recommendations/models.go
package generaterecommendations

import "social-support-workers/internal/eligibility"

type Input struct {
	ApplicationID   string                 `json:"applicationId"`
	ApplicationData map[string]interface{} `json:"applicationData"`
	RiskLevel       string                 `json:"riskLevel"`
}

type Output struct {
	ApplicationID   string                       `json:"applicationId"`
	Recommendations []eligibility.Recommendation `json:"recommendations"`
}
