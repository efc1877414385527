// internal/workers/data-access/query-recent-assessments/handler_test.go
package queryrecentassessments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func recentAssessmentColumns() []string {
	return []string{
		"id", "filename", "income", "family_size", "assessment_status",
		"risk_level", "eligibility_score", "reasons", "created_at",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RecentAssessments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(recentAssessmentColumns()).
		AddRow("id-2", "second.pdf", 80000.0, 2, "approved", "low", 0.91,
			[]byte(`[]`), "2026-08-30T10:00:00Z").
		AddRow("id-1", "first.pdf", 45000.0, 6, "rejected", "medium", 0.42,
			[]byte(`["Income below threshold"]`), "2026-08-29T10:00:00Z")

	mock.ExpectQuery(`SELECT id, filename, income, family_size`).
		WithArgs(2).
		WillReturnRows(rows)

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeRecentAssessments),
		Limit:     2,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, output.RowCount)

	data, ok := output.Data.([]map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "id-2", data[0]["id"], "newest row first")
	assert.Equal(t, []string{"Income below threshold"}, data[1]["reasons"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, filename, income, family_size`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(recentAssessmentColumns()))

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeRecentAssessments),
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_LimitCapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, filename, income, family_size`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(recentAssessmentColumns()))

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	_, err = handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeRecentAssessments),
		Limit:     5000,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AssessmentByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	columns := []string{
		"id", "filename", "income", "family_size", "address", "assets", "liabilities",
		"employment_status", "validation_status", "assessment_status", "risk_level",
		"eligibility_score", "reasons", "recommendations", "created_at", "updated_at",
	}
	mock.ExpectQuery(`SELECT id, filename, income, family_size, address`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("id-1", "first.pdf", 45000.0, 6, "14 Al Wasl Road", 10000.0, 2000.0,
				"employed", "complete", "rejected", "medium", 0.42,
				[]byte(`["Income below threshold"]`), []byte(`[]`),
				"2026-08-29T10:00:00Z", "2026-08-29T10:00:00Z"))

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType:    string(QueryTypeAssessmentByID),
		AssessmentID: "id-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)

	data, ok := output.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rejected", data["assessmentStatus"])
	assert.Equal(t, 6, data["familySize"])
}

func TestHandler_Execute_AssessmentStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT risk_level, assessment_status, COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"risk_level", "assessment_status", "count"}).
			AddRow("low", "approved", 12).
			AddRow("high", "rejected", 7))

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeAssessmentStats),
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, output.RowCount)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidQueryType(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	_, err = handler.Execute(context.Background(), &Input{QueryType: "franchise_details"})

	assert.ErrorIs(t, err, ErrInvalidQueryType)
}

func TestHandler_Execute_MissingAssessmentID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	_, err = handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeAssessmentByID),
	})

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}

func TestHandler_Execute_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, filename, income, family_size`).
		WillReturnError(errors.New("connection reset"))

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	_, err = handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeRecentAssessments),
	})

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewNop())

	_, err = handler.Execute(context.Background(), nil)
	assert.Error(t, err)
}
