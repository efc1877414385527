// internal/workers/data-access/search-assessments/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// SearchQuery describes one search over the assessment audit index.
type SearchQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	Pagination struct {
		From int
		Size int
	}
}

// BuildRequest maps a query type to its Elasticsearch request body.
func BuildRequest(sq SearchQuery) (*esapi.SearchRequest, error) {
	if sq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch sq.QueryType {
	case "assessment_search":
		queryBody = buildAssessmentSearchQuery(sq)
	case "high_risk_assessments":
		queryBody = buildHighRiskQuery(sq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, sq.QueryType)
	}

	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{sq.Index},
		Body:  bytes.NewReader(body),
		From:  &sq.Pagination.From,
		Size:  &sq.Pagination.Size,
	}

	return &req, nil
}

// buildAssessmentSearchQuery combines the optional filters into a bool query.
// Results come back newest first so the review dashboard needs no sort of
// its own.
func buildAssessmentSearchQuery(sq SearchQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if filename, ok := sq.Filters["filename"].(string); ok && filename != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"match": map[string]interface{}{"filename": filename},
		})
	}

	if riskLevel, ok := sq.Filters["riskLevel"].(string); ok && riskLevel != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"riskLevel": riskLevel},
		})
	}

	if status, ok := sq.Filters["status"].(string); ok && status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"assessmentStatus": status},
		})
	}

	if dateRange, ok := sq.Filters["createdAfter"].(string); ok && dateRange != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"createdAt": map[string]interface{}{"gte": dateRange},
			},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(boolQuery) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort":  []interface{}{map[string]interface{}{"createdAt": "desc"}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []interface{}{map[string]interface{}{"createdAt": "desc"}},
	}
}

func buildHighRiskQuery(sq SearchQuery) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"riskLevel": "high"},
		},
	}

	if status, ok := sq.Filters["status"].(string); ok && status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"assessmentStatus": status},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filterClauses},
		},
		"sort": []interface{}{map[string]interface{}{"createdAt": "desc"}},
	}
}
