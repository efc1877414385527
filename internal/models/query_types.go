// internal/models/query_types.go
package models

// QueryType names a registered read-side query.
type QueryType string

const (
	QueryTypeRecentAssessments QueryType = "recent_assessments"
	QueryTypeAssessmentByID    QueryType = "assessment_by_id"
	QueryTypeAssessmentStats   QueryType = "assessment_stats"
)
