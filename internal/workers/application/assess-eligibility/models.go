// internal/workers/application/assess-eligibility/models.go
package assesseligibility

import "social-support-workers/internal/eligibility"

type Input struct {
	ApplicationID   string                 `json:"applicationId"`
	ApplicationData map[string]interface{} `json:"applicationData"`
}

type Output struct {
	ApplicationID    string              `json:"applicationId"`
	IsEligible       bool                `json:"isEligible"`
	Reasons          []string            `json:"reasons"`
	RiskScore        int                 `json:"riskScore"`
	RiskLevel        string              `json:"riskLevel"`
	Ratios           eligibility.Ratios  `json:"ratios"`
	ModelProbability float64             `json:"modelProbability"`
	AssessedAt       string              `json:"assessedAt"`
	FromCache        bool                `json:"fromCache,omitempty"`
}
