// internal/workers/application/create-assessment-record/models.go
package createassessmentrecord

import "social-support-workers/internal/eligibility"

type Input struct {
	ApplicationID    string                       `json:"applicationId"`
	ApplicationData  map[string]interface{}       `json:"applicationData"`
	IsEligible       bool                         `json:"isEligible"`
	Reasons          []string                     `json:"reasons"`
	RiskScore        int                          `json:"riskScore"`
	RiskLevel        string                       `json:"riskLevel"`
	ModelProbability float64                      `json:"modelProbability"`
	Recommendations  []eligibility.Recommendation `json:"recommendations"`
}

type Output struct {
	AssessmentID     string `json:"assessmentId"`
	AssessmentStatus string `json:"assessmentStatus"`
	CreatedAt        string `json:"createdAt"`
	Indexed          bool   `json:"indexed"`
}
