// internal/workers/risk/assess-credit-risk/handler.go
package assesscreditrisk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"credit-risk-workers/internal/assessment"
	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/dataset"
	"credit-risk-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = registry.AssessCreditRiskTaskType

// Assessor is the part of *assessment.Assessor the worker needs.
type Assessor interface {
	Assess(ctx context.Context, input assessment.Input) (*assessment.Result, error)
}

type Handler struct {
	config       *Config
	snapshot     *dataset.Snapshot
	assessor     Assessor
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Snapshot      *dataset.Snapshot
	Assessor      Assessor
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Snapshot == nil {
		return nil, fmt.Errorf("dataset snapshot is required")
	}
	if opts.Assessor == nil {
		return nil, fmt.Errorf("assessor is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       opts.Config,
		snapshot:     opts.Snapshot,
		assessor:     opts.Assessor,
		obs:          opts.Observability,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(context.Background(), client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			h.obs.RecordJobProcessed(ctx, TaskType, "completed")
			h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")
			h.obs.RecordRecommendation(ctx, output.Recommendation)
			return
		}
	}

	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
	h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidAssessmentInputError(fmt.Sprintf("failed to parse job variables: %v", err))
	}

	if err := h.config.Activity.ValidateInput(variables); err != nil {
		return nil, errors.NewInvalidAssessmentInputError(err.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInvalidAssessmentInputError(fmt.Sprintf("failed to decode input: %v", err))
	}
	return &input, nil
}

// Execute assesses one applicant from the snapshot. It is the job body without the Zeebe
// plumbing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidAssessmentInputError("input cannot be nil")
	}
	name := strings.TrimSpace(input.ApplicantName)
	if name == "" {
		return nil, errors.NewInvalidAssessmentInputError("applicantName is required")
	}

	applicant, ok := h.snapshot.Lookup(name)
	if !ok {
		return nil, errors.NewApplicantNotFoundError(name)
	}

	result, err := h.assessor.Assess(ctx, assessment.Input{Applicant: applicant, Essay: input.Essay})
	if err != nil {
		return nil, err
	}

	return newOutput(result), nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":         job.GetKey(),
		"applicant":      output.ApplicantName,
		"finalScore":     output.FinalScore,
		"recommendation": output.Recommendation,
	})
}
