// internal/workers/application/validate-application-data/handler.go
package validateapplicationdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/common/metrics"
	"social-support-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-application-data"

	statusComplete   = "complete"
	statusIncomplete = "incomplete"
)

// Employment labels accepted by the intake form. Matching is
// case-insensitive after trimming.
var knownEmploymentStatuses = map[string]struct{}{
	"employed":      {},
	"unemployed":    {},
	"self-employed": {},
	"self_employed": {},
	"student":       {},
	"retired":       {},
	"seeking":       {},
}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "VALIDATION_FAILED").Inc()
		h.failJob(client, job, "VALIDATION_FAILED", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

// execute runs the schema check first, then the rules JSON schema cannot
// express. A record with any error is incomplete, never an error return;
// the workflow routes on isValid.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.ApplicationData == nil {
		return &Output{
			ApplicationID:    input.ApplicationID,
			IsValid:          false,
			ValidationStatus: statusIncomplete,
			Errors: []validation.ValidationError{
				{Field: "applicationData", Message: "application data is missing"},
			},
		}, nil
	}

	result, err := validation.ValidateDocument(input.ApplicationData, validation.ApplicantRecordSchema)
	if err != nil {
		return nil, err
	}

	errs := result.Errors
	errs = append(errs, checkEmploymentStatus(input.ApplicationData)...)

	output := &Output{
		ApplicationID:    input.ApplicationID,
		IsValid:          len(errs) == 0,
		ValidationStatus: statusComplete,
		Errors:           errs,
	}
	if !output.IsValid {
		output.ValidationStatus = statusIncomplete
	}

	h.logger.Info("validation completed", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"isValid":       output.IsValid,
		"errorCount":    len(errs),
	})

	return output, nil
}

func checkEmploymentStatus(data map[string]interface{}) []validation.ValidationError {
	raw, ok := data["employment_status"]
	if !ok || raw == nil {
		return nil
	}
	status, ok := raw.(string)
	if !ok {
		return []validation.ValidationError{{
			Field:   "employment_status",
			Message: "employment_status must be a string",
		}}
	}
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return nil
	}
	for known := range knownEmploymentStatuses {
		if strings.Contains(normalized, known) {
			return nil
		}
	}
	return []validation.ValidationError{{
		Field:   "employment_status",
		Message: fmt.Sprintf("unrecognized employment status %q", status),
	}}
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
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
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
