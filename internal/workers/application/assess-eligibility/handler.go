// internal/workers/application/assess-eligibility/handler.go
package assesseligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/common/metrics"
	"social-support-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "assess-eligibility"
)

// Handler wraps the eligibility engine for workflow jobs. The engine itself
// is pure; the handler adds input parsing, result caching (so a re-polled
// job returns the decision already made for the application), and metrics.
type Handler struct {
	config *Config
	engine *eligibility.Engine
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, engine *eligibility.Engine, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		redis:  redisClient,
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INPUT_INVALID").Inc()
		h.failJob(client, job, "INPUT_INVALID", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID != "" {
		if cached, ok := h.cachedAssessment(ctx, input.ApplicationID); ok {
			h.logger.Info("returning cached assessment", map[string]interface{}{
				"applicationId": input.ApplicationID,
			})
			cached.FromCache = true
			return cached, nil
		}
	}

	record, err := eligibility.RecordFromMap(input.ApplicationData)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.Assess(record)
	if err != nil {
		return nil, err
	}

	decision := "rejected"
	if result.IsEligible {
		decision = "approved"
	}
	metrics.AssessmentsCompleted.WithLabelValues(decision, string(result.RiskLevel)).Inc()
	metrics.ModelProbability.Observe(result.ModelProbability)

	output := &Output{
		ApplicationID:    input.ApplicationID,
		IsEligible:       result.IsEligible,
		Reasons:          result.Reasons,
		RiskScore:        result.RiskScore,
		RiskLevel:        string(result.RiskLevel),
		Ratios:           result.Ratios,
		ModelProbability: result.ModelProbability,
		AssessedAt:       result.AssessedAt.Format(time.RFC3339),
	}

	h.logger.Info("assessment completed", map[string]interface{}{
		"applicationId":    input.ApplicationID,
		"isEligible":       output.IsEligible,
		"riskLevel":        output.RiskLevel,
		"riskScore":        output.RiskScore,
		"modelProbability": output.ModelProbability,
		"reasons":          output.Reasons,
	})

	if input.ApplicationID != "" {
		h.cacheAssessment(ctx, input.ApplicationID, output)
	}

	return output, nil
}

func (h *Handler) cachedAssessment(ctx context.Context, applicationID string) (*Output, bool) {
	if h.redis == nil {
		return nil, false
	}
	raw, err := h.redis.Get(ctx, cacheKey(applicationID)).Result()
	if err != nil {
		return nil, false
	}
	var output Output
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		return nil, false
	}
	return &output, true
}

func (h *Handler) cacheAssessment(ctx context.Context, applicationID string, output *Output) {
	if h.redis == nil {
		return
	}
	raw, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, cacheKey(applicationID), raw, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache assessment", map[string]interface{}{
			"applicationId": applicationID,
			"error":         err,
		})
	}
}

func cacheKey(applicationID string) string {
	return "assessment:" + applicationID
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
