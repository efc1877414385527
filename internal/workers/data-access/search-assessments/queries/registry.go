// internal/workers/data-access/search-assessments/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

type QueryResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, sq SearchQuery) (*QueryResult, error) {
	if sq.Pagination.Size < 1 {
		sq.Pagination.Size = 20
	}
	if sq.Pagination.Size > 100 {
		sq.Pagination.Size = 100
	}
	if sq.Filters == nil {
		sq.Filters = map[string]interface{}{}
	}

	req, err := BuildRequest(sq)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed search response: missing hits")
	}

	total := 0.0
	if t, ok := hits["total"].(map[string]interface{}); ok {
		if v, ok := t["value"].(float64); ok {
			total = v
		}
	}
	maxScore := 0.0
	if ms, ok := hits["max_score"].(float64); ok {
		maxScore = ms
	}

	var data []map[string]interface{}
	if hitList, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range hitList {
			if h, ok := hit.(map[string]interface{}); ok {
				if source, ok := h["_source"].(map[string]interface{}); ok {
					data = append(data, source)
				}
			}
		}
	}

	return &QueryResult{
		Data:      data,
		TotalHits: int64(total),
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
