// internal/eligibility/recommendations.go
package eligibility

import "strings"

// Recommendation is one economic-enablement suggestion tied to the
// applicant's situation. The downstream counseling service turns these
// into human-readable text.
type Recommendation struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Eligibility string `json:"eligibility"`
	Link        string `json:"link"`
}

// Recommendations maps the applicant's employment status, income, family
// size, and risk tier to the fixed catalog of enablement programs.
// Employment status labels are matched case-insensitively by substring.
func Recommendations(record *Record, riskLevel RiskLevel) []Recommendation {
	recs := []Recommendation{}
	status := strings.ToLower(record.EmploymentStatus)

	if strings.Contains(status, "unemployed") || record.Income < 40000 {
		priority := "medium"
		if riskLevel == RiskHigh {
			priority = "high"
		}
		recs = append(recs, Recommendation{
			Type:        "upskilling",
			Priority:    priority,
			Title:       "Digital Skills Training Program",
			Description: "Free 12-week digital skills program covering basic IT, coding, and digital marketing",
			Eligibility: "Available to all applicants with income below 40,000 AED",
			Link:        "https://example.gov/digital-skills",
		})
	}

	if strings.Contains(status, "unemployed") || strings.Contains(status, "seeking") {
		recs = append(recs, Recommendation{
			Type:        "job_matching",
			Priority:    "high",
			Title:       "Government Job Placement Program",
			Description: "Fast-track placement program with local employers and government agencies",
			Eligibility: "Available to all unemployed applicants",
			Link:        "https://example.gov/job-placement",
		})
	}

	if riskLevel == RiskHigh || riskLevel == RiskMedium {
		recs = append(recs, Recommendation{
			Type:        "financial_literacy",
			Priority:    "medium",
			Title:       "Financial Management Workshop",
			Description: "Workshop series on budgeting, saving, and debt management",
			Eligibility: "Available to all applicants",
			Link:        "https://example.gov/financial-workshop",
		})
	}

	if strings.Contains(status, "self-employed") || strings.Contains(status, "business") {
		recs = append(recs, Recommendation{
			Type:        "business_support",
			Priority:    "medium",
			Title:       "Small Business Grant Program",
			Description: "Grants up to 50,000 AED for small business development or expansion",
			Eligibility: "Available to self-employed applicants or small business owners",
			Link:        "https://example.gov/business-grants",
		})
	}

	if record.FamilySize >= 4 {
		recs = append(recs, Recommendation{
			Type:        "family_support",
			Priority:    "medium",
			Title:       "Family Support Package",
			Description: "Additional benefits for large families including education subsidies and healthcare",
			Eligibility: "Available to families with 4 or more members",
			Link:        "https://example.gov/family-support",
		})
	}

	return recs
}
