// Package assessment fuses a credit-score formula with a language-model reading of an
// applicant's essay into one approve/reject recommendation.
package assessment

import (
	"context"
	"errors"
	"time"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/llm"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/models"

	"github.com/google/uuid"
)

// Input pairs one applicant with the essay submitted for this assessment.
type Input struct {
	Applicant models.ApplicantRecord
	Essay     string
}

// Result is produced fresh per assessment and never stored.
type Result struct {
	ID              string         `json:"id"`
	ApplicantName   string         `json:"applicantName"`
	HardRiskScore   float64        `json:"hardRiskScore"`
	SoftRiskScore   float64        `json:"softRiskScore"`
	Reasoning       string         `json:"reasoning"`
	FinalScore      float64        `json:"finalScore"`
	Recommendation  Recommendation `json:"recommendation"`
	ParseOutcome    Outcome        `json:"parseOutcome"`
	BiasCheckPassed bool           `json:"biasCheckPassed"`
	Model           string         `json:"model"`
	AssessedAt      time.Time      `json:"assessedAt"`
}

type Assessor struct {
	completer llm.Completer
	model     string
	timeout   time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewAssessor creates an Assessor. timeout bounds each completion call when the caller's
// context carries no deadline; zero disables it.
func NewAssessor(completer llm.Completer, model string, timeout time.Duration, log logger.Logger) *Assessor {
	return &Assessor{
		completer: completer,
		model:     model,
		timeout:   timeout,
		logger: log.WithFields(map[string]interface{}{
			"component": "assessor",
			"provider":  completer.Provider(),
		}),
		now: time.Now,
	}
}

// RequestBehavioralAssessment sends one prompt and returns the raw reply. Failures come back as
// LLM_TIMEOUT or LLM_SERVICE_ERROR StandardErrors. There is no retry.
func (a *Assessor) RequestBehavioralAssessment(ctx context.Context, essay string, creditScore int, transactions string) (string, error) {
	limit := a.timeout
	if deadline, ok := ctx.Deadline(); ok {
		limit = time.Until(deadline)
	} else if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.completer.Complete(ctx, llm.Request{
		Model:       a.model,
		Temperature: 0,
		System:      SystemInstruction,
		User:        BuildUserPrompt(essay, creditScore, transactions),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apperrors.NewLLMTimeoutError(limit, err)
		}
		return "", apperrors.NewLLMServiceError(a.completer.Provider(), err)
	}

	return raw, nil
}

// Assess runs hard score, completion request, parse and fusion for one applicant. A completion
// failure aborts this assessment only; an unreadable reply is absorbed by the parse fallback.
func (a *Assessor) Assess(ctx context.Context, input Input) (*Result, error) {
	applicant := input.Applicant
	log := a.logger.WithFields(map[string]interface{}{"applicant": applicant.Name})

	hard := ComputeHardRisk(applicant.CreditScore)

	raw, err := a.RequestBehavioralAssessment(ctx, input.Essay, applicant.CreditScore, applicant.RecentTransactions)
	if err != nil {
		log.WithError(err).Error("behavioral assessment failed", nil)
		return nil, err
	}

	parsed := ParseAssessment(raw)
	if parsed.IsFallback() {
		log.Warn("assessment reply not in expected format, using default soft score", map[string]interface{}{
			"cause":     parsed.FallbackCause.Error(),
			"softScore": parsed.Score,
		})
	}

	final, recommendation := Fuse(hard, parsed.Score)

	metrics.RiskAssessments.WithLabelValues(string(recommendation), string(parsed.Outcome)).Inc()
	metrics.RiskFinalScore.Observe(final)

	result := &Result{
		ID:              uuid.New().String(),
		ApplicantName:   applicant.Name,
		HardRiskScore:   hard,
		SoftRiskScore:   parsed.Score,
		Reasoning:       parsed.Reasoning,
		FinalScore:      final,
		Recommendation:  recommendation,
		ParseOutcome:    parsed.Outcome,
		BiasCheckPassed: BiasCheckReported(raw),
		Model:           a.model,
		AssessedAt:      a.now().UTC(),
	}

	log.Info("assessment completed", map[string]interface{}{
		"assessmentId":   result.ID,
		"hardScore":      hard,
		"softScore":      parsed.Score,
		"finalScore":     final,
		"recommendation": string(recommendation),
	})

	return result, nil
}
