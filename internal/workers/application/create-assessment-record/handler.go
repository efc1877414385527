// internal/workers/application/create-assessment-record/handler.go
package createassessmentrecord

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/common/metrics"
	"social-support-workers/internal/eligibility"
	"social-support-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

const (
	TaskType = "create-assessment-record"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateAssessment  = errors.New("DUPLICATE_ASSESSMENT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	es     *elasticsearch.Client
	logger logger.Logger
}

// NewHandler builds the persistence worker. es may be nil; indexing is
// best-effort and the row insert is the source of truth.
func NewHandler(config *Config, db *sql.DB, es *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		es:     es,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrDatabaseInsertFailed) {
			errorCode = "DATABASE_INSERT_FAILED"
			retries = 3
		} else if errors.Is(err, ErrDuplicateAssessment) {
			errorCode = "DUPLICATE_ASSESSMENT"
			retries = 0
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	record, err := eligibility.RecordFromMap(input.ApplicationData)
	if err != nil {
		return nil, err
	}

	// One assessment row per source document.
	var exists bool
	err = h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM assessments
			WHERE filename = $1
		)`, record.Filename).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: assessment already exists for document %s",
			ErrDuplicateAssessment, record.Filename)
	}

	assessmentID := input.ApplicationID
	if assessmentID == "" {
		assessmentID = uuid.New().String()
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)

	status := models.StatusRejected
	if input.IsEligible {
		status = models.StatusApproved
	}

	reasonsJSON, err := json.Marshal(input.Reasons)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal reasons: %v", ErrDatabaseInsertFailed, err)
	}
	recommendationsJSON, err := json.Marshal(input.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal recommendations: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO assessments (
			id, filename, income, family_size, address, assets, liabilities,
			employment_status, validation_status, assessment_status, risk_level,
			eligibility_score, reasons, recommendations, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`,
		assessmentID,
		record.Filename,
		record.Income,
		record.FamilySize,
		record.Address,
		record.Assets,
		record.Liabilities,
		record.EmploymentStatus,
		"complete",
		status,
		input.RiskLevel,
		input.ModelProbability,
		reasonsJSON,
		recommendationsJSON,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	indexed := h.indexAssessment(ctx, assessmentID, record, input, status, createdAt)

	h.logger.Info("assessment record created", map[string]interface{}{
		"assessmentId":     assessmentID,
		"assessmentStatus": status,
		"riskLevel":        input.RiskLevel,
		"indexed":          indexed,
	})

	return &Output{
		AssessmentID:     assessmentID,
		AssessmentStatus: status,
		CreatedAt:        createdAt,
		Indexed:          indexed,
	}, nil
}

// indexAssessment mirrors the row into the audit search index. Failures are
// logged, not returned; the index is rebuilt from Postgres when it drifts.
func (h *Handler) indexAssessment(ctx context.Context, assessmentID string, record *eligibility.Record, input *Input, status, createdAt string) bool {
	if h.es == nil {
		return false
	}

	doc := models.Assessment{
		ID:               assessmentID,
		Filename:         record.Filename,
		Income:           record.Income,
		FamilySize:       record.FamilySize,
		Address:          record.Address,
		Assets:           record.Assets,
		Liabilities:      record.Liabilities,
		EmploymentStatus: record.EmploymentStatus,
		ValidationStatus: "complete",
		AssessmentStatus: status,
		RiskLevel:        input.RiskLevel,
		EligibilityScore: input.ModelProbability,
		Reasons:          input.Reasons,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		h.logger.Warn("failed to marshal assessment for indexing", map[string]interface{}{
			"error": err,
		})
		return false
	}

	res, err := h.es.Index(
		h.config.AssessmentIndex,
		bytes.NewReader(body),
		h.es.Index.WithDocumentID(assessmentID),
		h.es.Index.WithContext(ctx),
	)
	if err != nil {
		h.logger.Warn("assessment index request failed", map[string]interface{}{
			"error":        err,
			"assessmentId": assessmentID,
		})
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		h.logger.Warn("assessment index returned error", map[string]interface{}{
			"status":       res.Status(),
			"assessmentId": assessmentID,
		})
		return false
	}
	return true
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
