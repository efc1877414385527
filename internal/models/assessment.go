// internal/models/assessment.go
package models

// Assessment is the stored outcome of one eligibility run, as persisted in
// the applications table and indexed for audit search.
type Assessment struct {
	ID                  string   `json:"id"`
	Filename            string   `json:"filename"`
	Income              float64  `json:"income"`
	FamilySize          int      `json:"familySize"`
	Address             string   `json:"address"`
	Assets              float64  `json:"assets"`
	Liabilities         float64  `json:"liabilities"`
	EmploymentStatus    string   `json:"employmentStatus"`
	ValidationStatus    string   `json:"validationStatus"`
	AssessmentStatus    string   `json:"assessmentStatus"`
	RiskLevel           string   `json:"riskLevel"`
	EligibilityScore    float64  `json:"eligibilityScore"`
	Reasons             []string `json:"reasons,omitempty"`
	RecommendationsJSON string   `json:"recommendations,omitempty"`
	CreatedAt           string   `json:"createdAt"`
	UpdatedAt           string   `json:"updatedAt"`
}

// Assessment status values stored in the assessment_status column.
const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
)
