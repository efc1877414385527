// internal/workers/data-access/search-assessments/models.go
package searchassessments

type Pagination struct {
	From int `json:"from,omitempty"`
	Size int `json:"size,omitempty"`
}

type Input struct {
	IndexName  string                 `json:"indexName"`
	QueryType  string                 `json:"queryType"`
	Filters    map[string]interface{} `json:"filters,omitempty"`
	Pagination *Pagination            `json:"pagination,omitempty"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
