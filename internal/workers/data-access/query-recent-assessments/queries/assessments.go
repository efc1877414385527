// internal/workers/data-access/query-recent-assessments/queries/assessments.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// RecentAssessments returns the newest assessment rows, newest first.
func RecentAssessments(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	limit := defaultLimit
	if raw, ok := params["limit"]; ok {
		switch v := raw.(type) {
		case int:
			limit = v
		case float64:
			limit = int(v)
		}
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, filename, income, family_size, assessment_status,
		       risk_level, eligibility_score, reasons, created_at
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var (
			id, filename, status, riskLevel, createdAt string
			income, eligibilityScore                   float64
			familySize                                 int
			reasonsRaw                                 []byte
		)
		if err := rows.Scan(&id, &filename, &income, &familySize, &status,
			&riskLevel, &eligibilityScore, &reasonsRaw, &createdAt); err != nil {
			return nil, 0, 0, err
		}

		var reasons []string
		if len(reasonsRaw) > 0 {
			if err := json.Unmarshal(reasonsRaw, &reasons); err != nil {
				reasons = nil
			}
		}

		results = append(results, map[string]interface{}{
			"id":               id,
			"filename":         filename,
			"income":           income,
			"familySize":       familySize,
			"assessmentStatus": status,
			"riskLevel":        riskLevel,
			"eligibilityScore": eligibilityScore,
			"reasons":          reasons,
			"createdAt":        createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

// AssessmentByID returns one full assessment row.
func AssessmentByID(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	assessmentID, ok := params["assessmentId"].(string)
	if !ok || assessmentID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var (
		id, filename, address, employmentStatus       string
		validationStatus, assessmentStatus, riskLevel string
		createdAt, updatedAt                          string
		income, assets, liabilities, eligibilityScore float64
		familySize                                    int
		reasonsRaw, recommendationsRaw                []byte
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, filename, income, family_size, address, assets, liabilities,
		       employment_status, validation_status, assessment_status, risk_level,
		       eligibility_score, reasons, recommendations, created_at, updated_at
		FROM assessments
		WHERE id = $1`, assessmentID).Scan(
		&id, &filename, &income, &familySize, &address, &assets, &liabilities,
		&employmentStatus, &validationStatus, &assessmentStatus, &riskLevel,
		&eligibilityScore, &reasonsRaw, &recommendationsRaw, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	var reasons []string
	if len(reasonsRaw) > 0 {
		_ = json.Unmarshal(reasonsRaw, &reasons)
	}
	var recommendations []map[string]interface{}
	if len(recommendationsRaw) > 0 {
		_ = json.Unmarshal(recommendationsRaw, &recommendations)
	}

	result := map[string]interface{}{
		"id":               id,
		"filename":         filename,
		"income":           income,
		"familySize":       familySize,
		"address":          address,
		"assets":           assets,
		"liabilities":      liabilities,
		"employmentStatus": employmentStatus,
		"validationStatus": validationStatus,
		"assessmentStatus": assessmentStatus,
		"riskLevel":        riskLevel,
		"eligibilityScore": eligibilityScore,
		"reasons":          reasons,
		"recommendations":  recommendations,
		"createdAt":        createdAt,
		"updatedAt":        updatedAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

// AssessmentStats returns approval counts grouped by risk level.
func AssessmentStats(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT risk_level, assessment_status, COUNT(*)
		FROM assessments
		GROUP BY risk_level, assessment_status`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var riskLevel, status string
		var count int64
		if err := rows.Scan(&riskLevel, &status, &count); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"riskLevel":        riskLevel,
			"assessmentStatus": status,
			"count":            count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
