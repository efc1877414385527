// internal/workers/data-access/query-recent-assessments/models.go
package queryrecentassessments

import "social-support-workers/internal/models"

type Input struct {
	QueryType    string                 `json:"queryType"`
	AssessmentID string                 `json:"assessmentId,omitempty"`
	Limit        int                    `json:"limit,omitempty"`
	Filters      map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeRecentAssessments = models.QueryTypeRecentAssessments
	QueryTypeAssessmentByID    = models.QueryTypeAssessmentByID
	QueryTypeAssessmentStats   = models.QueryTypeAssessmentStats
)
